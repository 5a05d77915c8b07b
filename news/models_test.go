package news_test

import (
	"testing"

	"github.com/goliatone/go-registration/news"
	"github.com/stretchr/testify/assert"
)

func TestColumnString(t *testing.T) {
	column := news.Column{Name: "Tech", Slug: "tech"}
	assert.Equal(t, "Tech", column.String())
}

func TestArticleString(t *testing.T) {
	article := news.Article{Title: "Go ships generics", Slug: "go-ships-generics"}
	assert.Equal(t, "Go ships generics", article.String())
}
