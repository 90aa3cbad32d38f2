package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/clients/pokeapi"
	"github.com/yungbote/pokedex-cache/internal/data/cache"
	"github.com/yungbote/pokedex-cache/internal/data/db"
	"github.com/yungbote/pokedex-cache/internal/data/repos"
	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/modules/pokedex"
	"github.com/yungbote/pokedex-cache/internal/observability"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
	"github.com/yungbote/pokedex-cache/internal/platform/logger"
)

const (
	MinPageLimit = 1
	MaxPageLimit = 100

	DefaultSearchMax     = 20
	SearchCandidateLimit = 1000

	DefaultFetchTimeout = 10 * time.Second
)

// PokemonService answers lookups from the local store and fills misses from
// the remote source.
type PokemonService interface {
	GetByKey(ctx context.Context, key string) (*pokedex.View, error)
	ListPage(ctx context.Context, limit, offset int) (*pokedex.Page, error)
	Search(ctx context.Context, query string, maxResults int) ([]*pokedex.View, error)
	ListByType(ctx context.Context, name string, limit, offset int) (*pokedex.Page, error)
	ListByAbility(ctx context.Context, name string, limit, offset int) (*pokedex.Page, error)
	ListWithHiddenAbilities(ctx context.Context) ([]*pokedex.View, error)
	ListWithMultipleTypes(ctx context.Context) ([]*pokedex.View, error)
	Debug(ctx context.Context, key string) (*pokedex.DebugInfo, error)
}

type pokemonService struct {
	db           *gorm.DB
	log          *logger.Logger
	pokemonRepo  repos.PokemonRepo
	fetcher      pokeapi.Fetcher
	normalizer   *pokedex.Normalizer
	pages        cache.PageCache
	fetchTimeout time.Duration
}

// NewPokemonService wires the orchestrator. pages may be nil to disable
// list caching; fetchTimeout <= 0 uses DefaultFetchTimeout.
func NewPokemonService(
	db *gorm.DB,
	log *logger.Logger,
	pokemonRepo repos.PokemonRepo,
	fetcher pokeapi.Fetcher,
	normalizer *pokedex.Normalizer,
	pages cache.PageCache,
	fetchTimeout time.Duration,
) PokemonService {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &pokemonService{
		db:           db,
		log:          log.With("service", "PokemonService"),
		pokemonRepo:  pokemonRepo,
		fetcher:      fetcher,
		normalizer:   normalizer,
		pages:        pages,
		fetchTimeout: fetchTimeout,
	}
}

type lookupKey struct {
	raw  string
	id   int64
	byID bool
}

// parseKey treats an all-digit key as an id and anything else as a name.
func parseKey(key string) (lookupKey, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return lookupKey{}, fmt.Errorf("%w: key is required", pokedex.ErrValidation)
	}
	if id, err := strconv.ParseInt(k, 10, 64); err == nil {
		if id <= 0 {
			return lookupKey{}, fmt.Errorf("%w: id must be positive, got %d", pokedex.ErrValidation, id)
		}
		return lookupKey{raw: k, id: id, byID: true}, nil
	}
	return lookupKey{raw: k}, nil
}

// remoteKey is the key form the remote source accepts.
func (k lookupKey) remoteKey() string {
	if k.byID {
		return strconv.FormatInt(k.id, 10)
	}
	return strings.ToLower(k.raw)
}

func (s *pokemonService) GetByKey(ctx context.Context, key string) (*pokedex.View, error) {
	ctx, span := observability.Tracer().Start(ctx, "PokemonService.GetByKey",
		trace.WithAttributes(attribute.String("pokemon.key", key)))
	defer span.End()

	p, outcome, err := s.getByKey(ctx, key)
	observability.Current().IncLookup(outcome)
	span.SetAttributes(attribute.String("pokemon.lookup_outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return pokedex.AssembleView(p), nil
}

func (s *pokemonService) getByKey(ctx context.Context, key string) (*types.Pokemon, string, error) {
	k, err := parseKey(key)
	if err != nil {
		return nil, observability.LookupError, err
	}

	p, _, err := s.findLocal(ctx, k)
	if err != nil {
		return nil, observability.LookupError, err
	}
	if p != nil {
		return p, observability.LookupHit, nil
	}
	return s.fill(ctx, k)
}

// findLocal reads with the combined shape and falls back to the simple
// shape plus a separate ability load if the combined read fails.
func (s *pokemonService) findLocal(ctx context.Context, k lookupKey) (*types.Pokemon, bool, error) {
	dbc := dbctx.Context{Ctx: ctx}

	var p *types.Pokemon
	var err error
	if k.byID {
		p, err = s.pokemonRepo.GetByIDWithAll(dbc, k.id)
	} else {
		p, err = s.pokemonRepo.GetByNameWithAll(dbc, k.raw)
	}
	if err == nil {
		return p, false, nil
	}
	if ctx.Err() != nil {
		return nil, false, fmt.Errorf("%w: %w", pokedex.ErrStorage, ctx.Err())
	}
	s.log.Warn("combined read failed, falling back to simple shape", "key", k.raw, "error", err)

	if k.byID {
		p, err = s.pokemonRepo.GetByIDWithTypes(dbc, k.id)
	} else {
		p, err = s.pokemonRepo.GetByNameWithTypes(dbc, k.raw)
	}
	if err != nil {
		return nil, true, fmt.Errorf("%w: %w", pokedex.ErrStorage, err)
	}
	if p == nil {
		return nil, true, nil
	}
	if lErr := s.pokemonRepo.LoadAbilities(dbc, p); lErr != nil {
		s.log.Warn("ability load failed, abilities marked unavailable", "pokemon_id", p.ID, "error", lErr)
	}
	return p, true, nil
}

// fill runs the miss path: fetch, normalize, re-check, persist.
func (s *pokemonService) fill(ctx context.Context, k lookupKey) (*types.Pokemon, string, error) {
	payload, err := s.fetchPokemon(ctx, k.remoteKey())
	if err != nil {
		if errors.Is(err, pokedex.ErrNotFound) {
			return nil, observability.LookupNotFound, err
		}
		return nil, observability.LookupUnavailable, err
	}
	species := s.fetchSpecies(ctx, payload)

	entity, err := s.normalizer.Normalize(dbctx.Context{Ctx: ctx}, payload, species)
	if err != nil {
		return nil, outcomeFor(err), err
	}

	stored := lookupKey{raw: strconv.FormatInt(payload.ID, 10), id: payload.ID, byID: true}
	existing, _, err := s.findLocal(ctx, stored)
	if err != nil {
		return nil, observability.LookupError, err
	}
	if existing != nil {
		s.log.Debug("pokemon stored concurrently, using stored row", "pokemon_id", payload.ID)
		return existing, observability.LookupRaceLost, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.pokemonRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, entity)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			winner, _, rErr := s.findLocal(ctx, stored)
			if rErr == nil && winner != nil {
				s.log.Debug("pokemon insert lost race, using stored row", "pokemon_id", payload.ID)
				return winner, observability.LookupRaceLost, nil
			}
		}
		s.log.Error("persist pokemon failed", "pokemon_id", payload.ID, "error", err)
		return nil, observability.LookupError, fmt.Errorf("%w: persist pokemon %d: %w", pokedex.ErrStorage, payload.ID, err)
	}

	s.invalidatePages(ctx)
	s.log.Info("pokemon cached from remote source",
		"pokemon_id", entity.ID,
		"name", entity.EnglishName,
		"types", len(entity.Types),
		"abilities", len(entity.Abilities),
	)
	return entity, observability.LookupMissFilled, nil
}

func (s *pokemonService) fetchPokemon(ctx context.Context, key string) (*pokeapi.Pokemon, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	payload, err := s.fetcher.FetchPokemon(fctx, key)
	if err == nil {
		return payload, nil
	}
	if errors.Is(err, pokeapi.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", pokedex.ErrNotFound, key)
	}
	s.log.Warn("remote fetch failed", "key", key, "error", err)
	return nil, fmt.Errorf("%w: fetch %q: %w", pokedex.ErrSourceUnavailable, key, err)
}

// fetchSpecies is best-effort: any failure yields nil. Alternate forms have
// no species of their own id, so the species reference wins when present.
func (s *pokemonService) fetchSpecies(ctx context.Context, payload *pokeapi.Pokemon) *pokeapi.Species {
	key := strings.TrimSpace(payload.Species.Name)
	if key == "" {
		key = strconv.FormatInt(payload.ID, 10)
	}
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	species, err := s.fetcher.FetchSpecies(fctx, key)
	if err != nil {
		s.log.Warn("species fetch failed, using canonical name", "pokemon_id", payload.ID, "species", key, "error", err)
		return nil
	}
	return species
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, pokedex.ErrNotFound):
		return observability.LookupNotFound
	case errors.Is(err, pokedex.ErrSourceUnavailable):
		return observability.LookupUnavailable
	default:
		return observability.LookupError
	}
}

func validatePaging(limit, offset int) error {
	if limit < MinPageLimit || limit > MaxPageLimit {
		return fmt.Errorf("%w: limit must be between %d and %d, got %d", pokedex.ErrValidation, MinPageLimit, MaxPageLimit, limit)
	}
	if offset < 0 {
		return fmt.Errorf("%w: offset must be non-negative, got %d", pokedex.ErrValidation, offset)
	}
	return nil
}

func (s *pokemonService) ListPage(ctx context.Context, limit, offset int) (*pokedex.Page, error) {
	if err := validatePaging(limit, offset); err != nil {
		return nil, err
	}
	page, key := s.cachedPage(ctx, cache.PageKey{Kind: "all", Limit: limit, Offset: offset})
	if page != nil {
		return page, nil
	}

	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.pokemonRepo.ListWithAll(dbc, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokedex.ErrStorage, err)
	}
	total, err := s.pokemonRepo.Count(dbc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokedex.ErrStorage, err)
	}
	page = pokedex.NewPage(pokedex.AssembleViews(rows), total, limit, offset, "", "")
	s.storePage(ctx, key, page)
	return page, nil
}

func (s *pokemonService) ListByType(ctx context.Context, name string, limit, offset int) (*pokedex.Page, error) {
	return s.listByReference(ctx, types.RefKindType, name, limit, offset)
}

func (s *pokemonService) ListByAbility(ctx context.Context, name string, limit, offset int) (*pokedex.Page, error) {
	return s.listByReference(ctx, types.RefKindAbility, name, limit, offset)
}

func (s *pokemonService) listByReference(ctx context.Context, kind types.RefKind, name string, limit, offset int) (*pokedex.Page, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: %s name is required", pokedex.ErrValidation, kind)
	}
	if err := validatePaging(limit, offset); err != nil {
		return nil, err
	}
	page, key := s.cachedPage(ctx, cache.PageKey{Kind: string(kind), Name: name, Limit: limit, Offset: offset})
	if page != nil {
		return page, nil
	}

	dbc := dbctx.Context{Ctx: ctx}
	match := strings.ToLower(name)
	var rows []*types.Pokemon
	var total int64
	var err error
	if kind == types.RefKindType {
		rows, total, err = s.pokemonRepo.ListByTypeName(dbc, match, offset, limit)
	} else {
		rows, total, err = s.pokemonRepo.ListByAbilityName(dbc, match, offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokedex.ErrStorage, err)
	}
	page = pokedex.NewPage(pokedex.AssembleViews(rows), total, limit, offset, string(kind), name)
	s.storePage(ctx, key, page)
	return page, nil
}

// Search scans a bounded candidate window and never calls the remote source.
func (s *pokemonService) Search(ctx context.Context, query string, maxResults int) ([]*pokedex.View, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, fmt.Errorf("%w: query is required", pokedex.ErrValidation)
	}
	switch {
	case maxResults == 0:
		maxResults = DefaultSearchMax
	case maxResults < MinPageLimit:
		maxResults = MinPageLimit
	case maxResults > MaxPageLimit:
		maxResults = MaxPageLimit
	}

	rows, err := s.pokemonRepo.ListWithAll(dbctx.Context{Ctx: ctx}, 0, SearchCandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokedex.ErrStorage, err)
	}

	fold := cases.Fold()
	needle := fold.String(q)
	out := make([]*pokedex.View, 0, maxResults)
	for _, p := range rows {
		if len(out) >= maxResults {
			break
		}
		if strings.Contains(fold.String(p.Name), needle) || strings.Contains(fold.String(p.EnglishName), needle) {
			out = append(out, pokedex.AssembleView(p))
		}
	}
	return out, nil
}

func (s *pokemonService) ListWithHiddenAbilities(ctx context.Context) ([]*pokedex.View, error) {
	rows, err := s.pokemonRepo.ListWithHiddenAbilities(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokedex.ErrStorage, err)
	}
	return pokedex.AssembleViews(rows), nil
}

func (s *pokemonService) ListWithMultipleTypes(ctx context.Context) ([]*pokedex.View, error) {
	rows, err := s.pokemonRepo.ListWithMultipleTypes(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pokedex.ErrStorage, err)
	}
	return pokedex.AssembleViews(rows), nil
}

// Debug reports how a locally stored pokemon loads. It never fetches.
func (s *pokemonService) Debug(ctx context.Context, key string) (*pokedex.DebugInfo, error) {
	k, err := parseKey(key)
	if err != nil {
		return nil, err
	}
	p, fallback, err := s.findLocal(ctx, k)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %q is not stored locally", pokedex.ErrNotFound, k.raw)
	}
	return pokedex.NewDebugInfo(p, fallback), nil
}

// cachedPage returns the cached page, if any, and the key a freshly built
// page must be stored under.
func (s *pokemonService) cachedPage(ctx context.Context, key cache.PageKey) (*pokedex.Page, cache.PageKey) {
	if s.pages == nil {
		return nil, key
	}
	var page pokedex.Page
	pinned, hit, err := s.pages.Get(ctx, key, &page)
	if err != nil {
		observability.Current().IncPageCache("error")
		s.log.Warn("page cache read failed, bypassing", "kind", key.Kind, "error", err)
		return nil, pinned
	}
	if !hit {
		observability.Current().IncPageCache("miss")
		return nil, pinned
	}
	observability.Current().IncPageCache("hit")
	return &page, pinned
}

func (s *pokemonService) storePage(ctx context.Context, key cache.PageKey, page *pokedex.Page) {
	if s.pages == nil {
		return
	}
	if err := s.pages.Set(ctx, key, page); err != nil {
		s.log.Warn("page cache write failed", "kind", key.Kind, "error", err)
	}
}

func (s *pokemonService) invalidatePages(ctx context.Context) {
	if s.pages == nil {
		return
	}
	if err := s.pages.Bump(ctx); err != nil {
		s.log.Warn("page cache invalidation failed", "error", err)
	}
}
