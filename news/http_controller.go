package news

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
)

// RegisterNewsRoutes mounts the plain text content routes on app.
func RegisterNewsRoutes[T any](app router.Router[T], opts ...NewsControllerOption) {

	controller := NewNewsController(opts...)

	app.Get(controller.Routes.Index, controller.Index).
		SetName("news.index")
	app.Get(controller.Routes.Column+"/:slug", controller.ColumnDetail).
		SetName("news.column")
	app.Get(controller.Routes.Article+"/:slug", controller.ArticleDetail).
		SetName("news.article")
}

type NewsControllerRoutes struct {
	Index   string
	Column  string
	Article string
}

type NewsController struct {
	Columns  Columns
	Articles Articles
	Routes   *NewsControllerRoutes
}

type NewsControllerOption func(*NewsController) *NewsController

func NewNewsController(opts ...NewsControllerOption) *NewsController {
	c := &NewsController{
		Routes: &NewsControllerRoutes{
			Index:   "/",
			Column:  "/column",
			Article: "/article",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func WithColumns(repo Columns) NewsControllerOption {
	return func(c *NewsController) *NewsController {
		c.Columns = repo
		return c
	}
}

func WithArticles(repo Articles) NewsControllerOption {
	return func(c *NewsController) *NewsController {
		c.Articles = repo
		return c
	}
}

func (a *NewsController) Index(ctx router.Context) error {
	return ctx.SendString("welcome to the news site")
}

func (a *NewsController) ColumnDetail(ctx router.Context) error {
	slug := ctx.Param("slug", "")

	if a.Columns != nil {
		if _, err := a.Columns.GetBySlug(ctx.Context(), slug); err != nil {
			if repository.IsRecordNotFound(err) {
				return ctx.Status(fiber.StatusNotFound).SendString("column not found: " + slug)
			}
			return err
		}
	}

	return ctx.SendString("column slug: " + slug)
}

func (a *NewsController) ArticleDetail(ctx router.Context) error {
	slug := ctx.Param("slug", "")

	if a.Articles != nil {
		if _, err := a.Articles.GetBySlug(ctx.Context(), slug); err != nil {
			if repository.IsRecordNotFound(err) {
				return ctx.Status(fiber.StatusNotFound).SendString("article not found: " + slug)
			}
			return err
		}
	}

	return ctx.SendString("article slug: " + slug)
}
