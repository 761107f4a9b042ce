package handler_test

import (
	"net/http"
	"testing"

	"github.com/gamefest/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListGames(t *testing.T) {
	ts := newTestServer(t)
	ts.state.games = []model.Game{
		{ID: 1, Title: "Super Mario Odyssey", Genre: "Platformer", Platforms: []string{"Switch"}},
		{ID: 2, Title: "Hollow Knight", Genre: "Metroidvania", Platforms: []string{"PC", "Switch"}},
		{ID: 3, Title: "Gran Turismo 7", Genre: "Racing", Platforms: []string{"PS5"}},
	}

	t.Run("no filter returns everything", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/games", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		games := decodeBody[[]model.Game](t, resp)
		assert.Len(t, games, 3)
	})

	t.Run("title substring", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/games?q=mario", nil)
		games := decodeBody[[]model.Game](t, resp)
		require.Len(t, games, 1)
		assert.Equal(t, "Super Mario Odyssey", games[0].Title)
	})

	t.Run("filters combine", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/games?platform=switch&genre=metroid", nil)
		games := decodeBody[[]model.Game](t, resp)
		require.Len(t, games, 1)
		assert.Equal(t, "Hollow Knight", games[0].Title)
	})

	t.Run("no match is an empty array", func(t *testing.T) {
		resp := ts.do(t, http.MethodGet, "/games?q=zzzz", nil)
		games := decodeBody[[]model.Game](t, resp)
		assert.NotNil(t, games)
		assert.Empty(t, games)
	})
}
