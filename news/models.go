// Package news holds the editorial content models: columns group articles,
// articles can belong to several columns at once.
package news

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Column struct {
	bun.BaseModel `bun:"table:columns,alias:col" json:"-"`

	ID    uuid.UUID `bun:"id,pk,nullzero" json:"id"`
	Name  string    `bun:"name,notnull" json:"name"`
	Slug  string    `bun:"slug,notnull" json:"slug"`
	Intro string    `bun:"intro,notnull" json:"intro"`

	Articles []*Article `bun:"m2m:article_columns,join:Column=Article" json:"articles,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

func (c Column) String() string {
	return c.Name
}

type Article struct {
	bun.BaseModel `bun:"table:articles,alias:art" json:"-"`

	ID        uuid.UUID  `bun:"id,pk,nullzero" json:"id"`
	Title     string     `bun:"title,notnull" json:"title"`
	Slug      string     `bun:"slug,notnull" json:"slug"`
	AuthorID  *uuid.UUID `bun:"author_id,nullzero" json:"author_id,omitempty"`
	Content   string     `bun:"content,notnull" json:"content"`
	Published bool       `bun:"published,notnull" json:"published"`

	Columns []*Column `bun:"m2m:article_columns,join:Article=Column" json:"columns,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

func (a Article) String() string {
	return a.Title
}

// ArticleColumn is the join record between articles and columns. Register it
// with bun.DB.RegisterModel before querying the m2m relations.
type ArticleColumn struct {
	bun.BaseModel `bun:"table:article_columns,alias:artcol" json:"-"`

	ArticleID uuid.UUID `bun:"article_id,pk" json:"article_id"`
	Article   *Article  `bun:"rel:belongs-to,join:article_id=id" json:"article,omitempty"`
	ColumnID  uuid.UUID `bun:"column_id,pk" json:"column_id"`
	Column    *Column   `bun:"rel:belongs-to,join:column_id=id" json:"column,omitempty"`
}
