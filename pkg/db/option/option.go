package option

import (
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/retailbook/pkg/db/pagination"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 250
)

var ErrInvalidPageToken = errors.New("invalid_page_token")

// QueryOption mutates a statement before it is executed.
type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type paginationOption struct {
	afterID snowflake.ID
	limit   int
	err     error
}

// ApplyPagination pages by descending snowflake id. Ids are time ordered,
// so this matches newest-first listing. One extra row is fetched so the
// caller can detect a following page. A token that does not decode to an
// id fails the statement with ErrInvalidPageToken.
func ApplyPagination(page pagination.Pagination) QueryOption {
	opt := paginationOption{limit: NormalizePageSize(page.PageSize)}
	if token := strings.TrimSpace(page.PageToken); token != "" {
		opt.afterID, opt.err = ParsePageToken(token)
	}
	return opt
}

// ParsePageToken returns the id a page token continues after.
func ParsePageToken(token string) (snowflake.ID, error) {
	cursor, err := pagination.DecodeCursor(token)
	if err != nil {
		return 0, ErrInvalidPageToken
	}
	id, err := snowflake.ParseString(cursor.ID)
	if err != nil || id <= 0 {
		return 0, ErrInvalidPageToken
	}
	return id, nil
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	if o.err != nil {
		_ = stmt.AddError(o.err)
		return stmt
	}
	if o.afterID != 0 {
		stmt = stmt.Where("id < ?", o.afterID)
	}
	return stmt.Limit(o.limit + 1)
}

func NormalizePageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}
