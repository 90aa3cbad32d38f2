package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pokedex-cache/internal/http/response"
	"github.com/yungbote/pokedex-cache/internal/modules/pokedex"
	"github.com/yungbote/pokedex-cache/internal/services"
)

const (
	defaultLimit  = 20
	defaultOffset = 0
)

type PokemonHandler struct {
	pokemon services.PokemonService
}

func NewPokemonHandler(pokemon services.PokemonService) *PokemonHandler {
	return &PokemonHandler{pokemon: pokemon}
}

// GET /api/pokemon/:key
func (h *PokemonHandler) GetPokemon(c *gin.Context) {
	view, err := h.pokemon.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/pokemon?limit=&offset=
func (h *PokemonHandler) ListPokemon(c *gin.Context) {
	limit, offset, ok := paging(c)
	if !ok {
		return
	}
	page, err := h.pokemon.ListPage(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/pokemon/search?q=&max=
func (h *PokemonHandler) Search(c *gin.Context) {
	query := c.Query("q")
	maxResults, ok := intQuery(c, "max", 0)
	if !ok {
		return
	}
	views, err := h.pokemon.Search(c.Request.Context(), query, maxResults)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"query": strings.TrimSpace(query), "count": len(views), "items": views})
}

// GET /api/pokemon/types/:name
func (h *PokemonHandler) ListByType(c *gin.Context) {
	limit, offset, ok := paging(c)
	if !ok {
		return
	}
	page, err := h.pokemon.ListByType(c.Request.Context(), c.Param("name"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/pokemon/abilities/:name
func (h *PokemonHandler) ListByAbility(c *gin.Context) {
	limit, offset, ok := paging(c)
	if !ok {
		return
	}
	page, err := h.pokemon.ListByAbility(c.Request.Context(), c.Param("name"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}

// GET /api/pokemon/hidden-abilities
func (h *PokemonHandler) ListHiddenAbilities(c *gin.Context) {
	views, err := h.pokemon.ListWithHiddenAbilities(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"count": len(views), "items": views})
}

// GET /api/pokemon/multi-type
func (h *PokemonHandler) ListMultiType(c *gin.Context) {
	views, err := h.pokemon.ListWithMultipleTypes(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"count": len(views), "items": views})
}

// GET /api/pokemon/debug/:key
func (h *PokemonHandler) Debug(c *gin.Context) {
	info, err := h.pokemon.Debug(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, info)
}

func respondServiceError(c *gin.Context, err error) {
	ae := pokedex.ToAPIError(err)
	if ae.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	response.RespondAPIError(c, ae)
}

func paging(c *gin.Context) (limit, offset int, ok bool) {
	if limit, ok = intQuery(c, "limit", defaultLimit); !ok {
		return 0, 0, false
	}
	if offset, ok = intQuery(c, "offset", defaultOffset); !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

// intQuery reads an optional integer query parameter, answering 400 itself
// when the value does not parse.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument",
			fmt.Errorf("%w: %s must be an integer", pokedex.ErrValidation, name))
		return 0, false
	}
	return v, true
}
