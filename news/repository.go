package news

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterModels wires the m2m join table into bun's model registry.
// Call it once on the DB handle before using the repositories.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*ArticleColumn)(nil))
}

type Columns interface {
	repository.Repository[*Column]

	GetBySlug(ctx context.Context, slug string) (*Column, error)
	List(ctx context.Context) ([]*Column, error)
}

type columns struct {
	repository.Repository[*Column]
	db *bun.DB
}

var _ Columns = (*columns)(nil)

func NewColumnsRepository(db *bun.DB) Columns {
	repo := repository.NewRepository[*Column](db, repository.ModelHandlers[*Column]{
		NewRecord: func() *Column { return &Column{} },
		GetID: func(c *Column) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Column, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &columns{
		Repository: repo,
		db:         db,
	}
}

func (a *columns) GetBySlug(ctx context.Context, slug string) (*Column, error) {
	record := &Column{}
	err := a.db.NewSelect().Model(record).
		Relation("Articles").
		Where("?TableAlias.slug = ?", slug).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"slug": slug,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *columns) List(ctx context.Context) ([]*Column, error) {
	var records []*Column
	err := a.db.NewSelect().Model(&records).
		Order("name ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

type Articles interface {
	repository.Repository[*Article]

	GetBySlug(ctx context.Context, slug string) (*Article, error)
	ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*Article, error)
}

type articles struct {
	repository.Repository[*Article]
	db *bun.DB
}

var _ Articles = (*articles)(nil)

func NewArticlesRepository(db *bun.DB) Articles {
	repo := repository.NewRepository[*Article](db, repository.ModelHandlers[*Article]{
		NewRecord: func() *Article { return &Article{} },
		GetID: func(a *Article) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Article, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "slug"
		},
	})

	return &articles{
		Repository: repo,
		db:         db,
	}
}

func (a *articles) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	record := &Article{}
	err := a.db.NewSelect().Model(record).
		Relation("Columns").
		Where("?TableAlias.slug = ?", slug).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"slug": slug,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *articles) ListByColumn(ctx context.Context, columnID uuid.UUID) ([]*Article, error) {
	var records []*Article
	err := a.db.NewSelect().Model(&records).
		Join("JOIN article_columns AS artcol ON artcol.article_id = ?TableAlias.id").
		Where("artcol.column_id = ?", columnID).
		Where("?TableAlias.published = ?", true).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}
