package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/pokedex-cache/internal/clients/pokeapi"
	"github.com/yungbote/pokedex-cache/internal/data/cache"
	"github.com/yungbote/pokedex-cache/internal/data/repos"
	"github.com/yungbote/pokedex-cache/internal/data/repos/testutil"
	types "github.com/yungbote/pokedex-cache/internal/domain"
	"github.com/yungbote/pokedex-cache/internal/modules/pokedex"
	"github.com/yungbote/pokedex-cache/internal/observability"
	"github.com/yungbote/pokedex-cache/internal/platform/dbctx"
)

type fakeFetcher struct {
	mu         sync.Mutex
	pokemon    map[string]*pokeapi.Pokemon
	species    map[string]*pokeapi.Species
	pokemonErr error
	delay      time.Duration
	calls      atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pokemon: map[string]*pokeapi.Pokemon{},
		species: map[string]*pokeapi.Species{},
	}
}

func (f *fakeFetcher) add(p *pokeapi.Pokemon, koName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pokemon[fmt.Sprint(p.ID)] = p
	f.pokemon[p.Name] = p
	if koName != "" {
		f.species[fmt.Sprint(p.ID)] = &pokeapi.Species{ID: p.ID, Name: p.Name, Names: []pokeapi.SpeciesName{
			{Name: koName, Language: pokeapi.NamedResource{Name: "ko"}},
		}}
	}
}

func (f *fakeFetcher) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pokemonErr = err
}

func (f *fakeFetcher) FetchPokemon(ctx context.Context, key string) (*pokeapi.Pokemon, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pokemonErr != nil {
		return nil, f.pokemonErr
	}
	p, ok := f.pokemon[key]
	if !ok {
		return nil, fmt.Errorf("%w: /pokemon/%s", pokeapi.ErrNotFound, key)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeFetcher) FetchSpecies(ctx context.Context, key string) (*pokeapi.Species, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.species[key]
	if !ok {
		return nil, fmt.Errorf("%w: /pokemon-species/%s", pokeapi.ErrNotFound, key)
	}
	return s, nil
}

func (f *fakeFetcher) ListPokemon(ctx context.Context, limit, offset int) (*pokeapi.ListPage, error) {
	return &pokeapi.ListPage{}, nil
}

func payload(id int64, name string, typeNames []string, abilityNames ...string) *pokeapi.Pokemon {
	h, w := 4, 60
	p := &pokeapi.Pokemon{ID: id, Name: name, Height: &h, Weight: &w}
	for i, t := range typeNames {
		p.Types = append(p.Types, pokeapi.TypeSlot{Slot: i + 1, Type: pokeapi.NamedResource{Name: t}})
	}
	for i, a := range abilityNames {
		p.Abilities = append(p.Abilities, pokeapi.AbilitySlot{Slot: i + 1, Ability: pokeapi.NamedResource{Name: a}})
	}
	return p
}

type harness struct {
	db      *gorm.DB
	repo    repos.PokemonRepo
	fetcher *fakeFetcher
	svc     PokemonService
}

func newHarness(t *testing.T, wrap func(repos.PokemonRepo) repos.PokemonRepo) *harness {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	tr, err := pokedex.DefaultTranslations()
	if err != nil {
		t.Fatalf("translations: %v", err)
	}
	repo := repos.NewPokemonRepo(gdb, log)
	if wrap != nil {
		repo = wrap(repo)
	}
	catalog := pokedex.NewCatalog(repos.NewTypeRepo(gdb, log), repos.NewAbilityRepo(gdb, log), tr, log)
	fetcher := newFakeFetcher()
	svc := NewPokemonService(gdb, log, repo, fetcher, pokedex.NewNormalizer(catalog), nil, time.Second)
	return &harness{db: gdb, repo: repo, fetcher: fetcher, svc: svc}
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := h.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestGetByKeyFillsMissFromRemote(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}), "")

	v, err := h.svc.GetByKey(context.Background(), "25")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if v.ID != 25 || v.Name != "pikachu" || v.EnglishName != "pikachu" {
		t.Fatalf("view=%+v", v)
	}
	if v.Types.Status != pokedex.StatusLoaded || len(v.Types.Items) != 1 || v.Types.Items[0].Slot != 1 || v.Types.Items[0].Name != "electric" {
		t.Fatalf("types=%+v", v.Types)
	}
	if v.Abilities.Status != pokedex.StatusEmpty {
		t.Fatalf("abilities status=%q", v.Abilities.Status)
	}

	stored, err := h.repo.GetByIDWithAll(dbctx.Context{Ctx: context.Background()}, 25)
	if err != nil || stored == nil || stored.Name != "pikachu" || len(stored.Types) != 1 {
		t.Fatalf("stored=%+v err=%v", stored, err)
	}

	if _, err := h.svc.GetByKey(context.Background(), "pikachu"); err != nil {
		t.Fatalf("GetByKey by name: %v", err)
	}
	if calls := h.fetcher.calls.Load(); calls != 1 {
		t.Fatalf("remote calls=%d, second lookup should hit locally", calls)
	}
}

func TestGetByKeyUsesLocalizedName(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(6, "charizard", []string{"fire", "flying"}, "blaze", "solar-power"), "리자몽")

	v, err := h.svc.GetByKey(context.Background(), " charizard ")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if v.Name != "리자몽" || v.Types.Items[0].KoreanName != "불꽃" || v.Abilities.Items[1].KoreanName != "태양의힘" {
		t.Fatalf("view=%+v", v)
	}
	if local, err := h.svc.GetByKey(context.Background(), "리자몽"); err != nil || local.ID != 6 {
		t.Fatalf("lookup by localized name: v=%v err=%v", local, err)
	}
}

func TestGetByKeyNotFound(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.svc.GetByKey(context.Background(), "electric-mouse")
	if !errors.Is(err, pokedex.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := h.count(t, &types.Pokemon{}); n != 0 {
		t.Fatalf("rows persisted: %d", n)
	}
}

func TestGetByKeySourceUnavailableThenRecovers(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}), "")
	h.fetcher.setErr(context.DeadlineExceeded)

	if _, err := h.svc.GetByKey(context.Background(), "25"); !errors.Is(err, pokedex.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if n := h.count(t, &types.Pokemon{}); n != 0 {
		t.Fatalf("rows persisted after failure: %d", n)
	}

	h.fetcher.setErr(nil)
	if _, err := h.svc.GetByKey(context.Background(), "25"); err != nil {
		t.Fatalf("GetByKey after recovery: %v", err)
	}
	if n := h.count(t, &types.Pokemon{}); n != 1 {
		t.Fatalf("rows after recovery: %d", n)
	}
}

func TestGetByKeyTimesOutSlowSource(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}), "")
	h.fetcher.delay = 200 * time.Millisecond
	h.svc.(*pokemonService).fetchTimeout = 20 * time.Millisecond

	if _, err := h.svc.GetByKey(context.Background(), "25"); !errors.Is(err, pokedex.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestGetByKeyRejectsInvalidKeys(t *testing.T) {
	h := newHarness(t, nil)
	for _, key := range []string{"", "   ", "0", "-7"} {
		if _, err := h.svc.GetByKey(context.Background(), key); !errors.Is(err, pokedex.ErrValidation) {
			t.Fatalf("key %q: expected ErrValidation, got %v", key, err)
		}
	}
	if calls := h.fetcher.calls.Load(); calls != 0 {
		t.Fatalf("remote called for invalid keys: %d", calls)
	}
}

func TestConcurrentFirstLookupsPersistOneRow(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}, "static", "lightning-rod"), "피카츄")
	h.fetcher.delay = 10 * time.Millisecond

	const workers = 8
	views := make([]*pokedex.View, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views[i], errs[i] = h.svc.GetByKey(context.Background(), "25")
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if views[i].Name != "피카츄" || len(views[i].Abilities.Items) != 2 {
			t.Fatalf("worker %d view=%+v", i, views[i])
		}
	}
	if n := h.count(t, &types.Pokemon{}); n != 1 {
		t.Fatalf("pokemon rows=%d", n)
	}
	if n := h.count(t, &types.PokemonAbility{}); n != 2 {
		t.Fatalf("ability assignments=%d", n)
	}
	if n := h.count(t, &types.Type{}); n != 1 {
		t.Fatalf("type rows=%d", n)
	}
}

func TestFillIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(1, "bulbasaur", []string{"grass", "poison"}, "overgrow"), "이상해씨")
	svc := h.svc.(*pokemonService)
	ctx := context.Background()

	k, _ := parseKey("1")
	first, outcome, err := svc.fill(ctx, k)
	if err != nil || outcome != "miss_filled" {
		t.Fatalf("first fill: outcome=%s err=%v", outcome, err)
	}
	second, outcome, err := svc.fill(ctx, k)
	if err != nil || outcome != "race_lost" {
		t.Fatalf("second fill: outcome=%s err=%v", outcome, err)
	}
	if first.ID != second.ID || second.Name != "이상해씨" {
		t.Fatalf("second fill returned %+v", second)
	}
	if n := h.count(t, &types.Pokemon{}); n != 1 {
		t.Fatalf("pokemon rows=%d", n)
	}
}

func TestAssembledTypesAreSortedBySlot(t *testing.T) {
	h := newHarness(t, nil)
	p := payload(6, "charizard", nil)
	p.Types = []pokeapi.TypeSlot{
		{Slot: 2, Type: pokeapi.NamedResource{Name: "flying"}},
		{Slot: 1, Type: pokeapi.NamedResource{Name: "fire"}},
	}
	h.fetcher.add(p, "")

	v, err := h.svc.GetByKey(context.Background(), "6")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if v.Types.Items[0].Slot != 1 || v.Types.Items[0].Name != "fire" || v.Types.Items[1].Name != "flying" {
		t.Fatalf("types=%+v", v.Types.Items)
	}
}

type brokenCombinedRepo struct {
	repos.PokemonRepo
}

func (brokenCombinedRepo) GetByIDWithAll(dbctx.Context, int64) (*types.Pokemon, error) {
	return nil, errors.New("combined query failed")
}

func (brokenCombinedRepo) GetByNameWithAll(dbctx.Context, string) (*types.Pokemon, error) {
	return nil, errors.New("combined query failed")
}

func TestCombinedReadFallbackKeepsChildren(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(145, "zapdos", []string{"electric", "flying"}, "pressure"), "")
	if _, err := h.svc.GetByKey(context.Background(), "145"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	log := testutil.Logger(t)
	fallbackSvc := NewPokemonService(h.db, log, brokenCombinedRepo{h.repo}, h.fetcher, nil, nil, time.Second)

	v, err := fallbackSvc.GetByKey(context.Background(), "zapdos")
	if err != nil {
		t.Fatalf("GetByKey via fallback: %v", err)
	}
	if len(v.Types.Items) != 2 || v.Abilities.Status != pokedex.StatusLoaded || len(v.Abilities.Items) != 1 {
		t.Fatalf("fallback view lost children: %+v", v)
	}

	d, err := fallbackSvc.Debug(context.Background(), "145")
	if err != nil || !d.FallbackShape || d.TypeCount != 2 || d.AbilityCount != 1 {
		t.Fatalf("Debug=%+v err=%v", d, err)
	}
}

type countingRepo struct {
	repos.PokemonRepo
	calls atomic.Int32
}

func (r *countingRepo) ListWithAll(dbc dbctx.Context, offset, limit int) ([]*types.Pokemon, error) {
	r.calls.Add(1)
	return r.PokemonRepo.ListWithAll(dbc, offset, limit)
}

func (r *countingRepo) Count(dbc dbctx.Context) (int64, error) {
	r.calls.Add(1)
	return r.PokemonRepo.Count(dbc)
}

func TestListPageValidatesBeforeStorage(t *testing.T) {
	var counter *countingRepo
	h := newHarness(t, func(r repos.PokemonRepo) repos.PokemonRepo {
		counter = &countingRepo{PokemonRepo: r}
		return counter
	})
	ctx := context.Background()

	for _, tc := range []struct{ limit, offset int }{{0, 0}, {101, 0}, {10, -1}} {
		if _, err := h.svc.ListPage(ctx, tc.limit, tc.offset); !errors.Is(err, pokedex.ErrValidation) {
			t.Fatalf("ListPage(%d,%d): expected ErrValidation, got %v", tc.limit, tc.offset, err)
		}
	}
	if counter.calls.Load() != 0 {
		t.Fatalf("storage touched before validation: %d calls", counter.calls.Load())
	}
}

func TestListPageAndFilters(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}, "static"), "피카츄")
	h.fetcher.add(payload(26, "raichu", []string{"electric"}, "static"), "라이츄")
	h.fetcher.add(payload(6, "charizard", []string{"fire", "flying"}, "blaze"), "리자몽")
	for _, key := range []string{"25", "26", "6"} {
		if _, err := h.svc.GetByKey(ctx, key); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	page, err := h.svc.ListPage(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 || page.Items[0].ID != 6 || !page.HasNext || page.HasPrev {
		t.Fatalf("page=%+v", page)
	}
	if page.Next == nil || *page.Next != "?limit=2&offset=2" {
		t.Fatalf("next=%v", page.Next)
	}

	byType, err := h.svc.ListByType(ctx, "Electric", 10, 0)
	if err != nil || byType.Total != 2 {
		t.Fatalf("ListByType: page=%+v err=%v", byType, err)
	}
	byKorean, err := h.svc.ListByType(ctx, "불꽃", 10, 0)
	if err != nil || byKorean.Total != 1 || byKorean.Items[0].EnglishName != "charizard" {
		t.Fatalf("ListByType korean: page=%+v err=%v", byKorean, err)
	}
	byAbility, err := h.svc.ListByAbility(ctx, "static", 1, 1)
	if err != nil || byAbility.Total != 2 || len(byAbility.Items) != 1 || *byAbility.Previous != "?limit=1&offset=0&ability=static" {
		t.Fatalf("ListByAbility: page=%+v err=%v", byAbility, err)
	}
	if _, err := h.svc.ListByType(ctx, " ", 10, 0); !errors.Is(err, pokedex.ErrValidation) {
		t.Fatalf("blank type: expected ErrValidation, got %v", err)
	}

	multi, err := h.svc.ListWithMultipleTypes(ctx)
	if err != nil || len(multi) != 1 || multi[0].ID != 6 {
		t.Fatalf("ListWithMultipleTypes: %v err=%v", multi, err)
	}
	hidden, err := h.svc.ListWithHiddenAbilities(ctx)
	if err != nil || len(hidden) != 0 {
		t.Fatalf("ListWithHiddenAbilities: %v err=%v", hidden, err)
	}
}

func TestSearch(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}), "")
	h.fetcher.add(payload(26, "raichu", []string{"electric"}), "")
	for _, key := range []string{"25", "26"} {
		if _, err := h.svc.GetByKey(ctx, key); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	calls := h.fetcher.calls.Load()

	if _, err := h.svc.Search(ctx, "", 0); !errors.Is(err, pokedex.ErrValidation) {
		t.Fatalf("empty query: expected ErrValidation, got %v", err)
	}
	got, err := h.svc.Search(ctx, "PIKA", 0)
	if err != nil || len(got) != 1 || got[0].EnglishName != "pikachu" {
		t.Fatalf("Search(PIKA): %v err=%v", got, err)
	}
	if both, err := h.svc.Search(ctx, "chu", 1); err != nil || len(both) != 1 {
		t.Fatalf("Search max=1: %d err=%v", len(both), err)
	}
	if none, err := h.svc.Search(ctx, "mew", 0); err != nil || len(none) != 0 {
		t.Fatalf("Search(mew): %v err=%v", none, err)
	}
	if h.fetcher.calls.Load() != calls {
		t.Fatalf("search called the remote source")
	}
}

func TestDebugDoesNotFetch(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}), "")

	if _, err := h.svc.Debug(context.Background(), "25"); !errors.Is(err, pokedex.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if h.fetcher.calls.Load() != 0 {
		t.Fatalf("debug called the remote source")
	}
}

func TestListPageCachedUntilFill(t *testing.T) {
	h := newHarness(t, nil)
	log := testutil.Logger(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tr, err := pokedex.DefaultTranslations()
	if err != nil {
		t.Fatalf("translations: %v", err)
	}
	catalog := pokedex.NewCatalog(repos.NewTypeRepo(h.db, log), repos.NewAbilityRepo(h.db, log), tr, log)
	svc := NewPokemonService(h.db, log, h.repo, h.fetcher, pokedex.NewNormalizer(catalog),
		cache.NewRedisPageCache(rdb, time.Minute, log), time.Second)

	h.fetcher.add(payload(1, "bulbasaur", []string{"grass", "poison"}), "")
	h.fetcher.add(payload(4, "charmander", []string{"fire"}), "")

	if _, err := svc.GetByKey(ctx, "1"); err != nil {
		t.Fatalf("fill 1: %v", err)
	}
	page, err := svc.ListPage(ctx, 10, 0)
	if err != nil || page.Total != 1 {
		t.Fatalf("first page: total=%v err=%v", page, err)
	}

	// Rows written behind the service's back stay invisible while cached.
	if err := h.repo.Create(dbctx.Context{Ctx: ctx}, &types.Pokemon{ID: 7, Name: "squirtle", EnglishName: "squirtle"}); err != nil {
		t.Fatalf("direct insert: %v", err)
	}
	page, err = svc.ListPage(ctx, 10, 0)
	if err != nil || page.Total != 1 {
		t.Fatalf("expected cached page with total 1, got %+v err=%v", page, err)
	}

	if _, err := svc.GetByKey(ctx, "4"); err != nil {
		t.Fatalf("fill 4: %v", err)
	}
	page, err = svc.ListPage(ctx, 10, 0)
	if err != nil || page.Total != 3 {
		t.Fatalf("fill should invalidate cached pages, got %+v err=%v", page, err)
	}

	mr.Close()
	page, err = svc.ListPage(ctx, 10, 0)
	if err != nil || page.Total != 3 {
		t.Fatalf("cache outage should fall through to storage, got %+v err=%v", page, err)
	}
}

// blindRepo hides stored rows from the next misses combined reads by id.
type blindRepo struct {
	repos.PokemonRepo
	misses atomic.Int32
}

func (r *blindRepo) GetByIDWithAll(dbc dbctx.Context, id int64) (*types.Pokemon, error) {
	if r.misses.Add(-1) >= 0 {
		return nil, nil
	}
	return r.PokemonRepo.GetByIDWithAll(dbc, id)
}

func TestInsertConflictReturnsStoredRow(t *testing.T) {
	blind := &blindRepo{}
	h := newHarness(t, func(r repos.PokemonRepo) repos.PokemonRepo {
		blind.PokemonRepo = r
		return blind
	})
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}, "static"), "")
	svc := h.svc.(*pokemonService)

	if _, outcome, err := svc.getByKey(context.Background(), "25"); err != nil || outcome != observability.LookupMissFilled {
		t.Fatalf("first lookup: outcome=%q err=%v", outcome, err)
	}

	// The local lookup and the recheck both miss, so the insert conflicts.
	blind.misses.Store(2)
	p, outcome, err := svc.getByKey(context.Background(), "25")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if outcome != observability.LookupRaceLost {
		t.Fatalf("outcome=%q, want %q", outcome, observability.LookupRaceLost)
	}
	if p == nil || p.ID != 25 || len(p.Types) != 1 || len(p.Abilities) != 1 {
		t.Fatalf("stored row=%+v", p)
	}
	if calls := h.fetcher.calls.Load(); calls != 2 {
		t.Fatalf("remote calls=%d", calls)
	}
	if n := h.count(t, &types.Pokemon{}); n != 1 {
		t.Fatalf("pokemon rows=%d", n)
	}
}

func TestRecheckFallsBackToSimpleShape(t *testing.T) {
	h := newHarness(t, func(r repos.PokemonRepo) repos.PokemonRepo {
		return brokenCombinedRepo{r}
	})
	h.fetcher.add(payload(145, "zapdos", []string{"electric", "flying"}, "pressure"), "")
	svc := h.svc.(*pokemonService)

	p, outcome, err := svc.getByKey(context.Background(), "145")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if outcome != observability.LookupMissFilled || p.ID != 145 {
		t.Fatalf("outcome=%q p=%+v", outcome, p)
	}
	if n := h.count(t, &types.Pokemon{}); n != 1 {
		t.Fatalf("pokemon rows=%d", n)
	}
}

func TestNameLookupIgnoresCaseLocally(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.add(payload(25, "pikachu", []string{"electric"}), "피카츄")
	if _, err := h.svc.GetByKey(context.Background(), "pikachu"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	h.fetcher.setErr(errors.New("connection refused"))
	for _, key := range []string{"Pikachu", "PIKACHU", "피카츄"} {
		v, err := h.svc.GetByKey(context.Background(), key)
		if err != nil || v.ID != 25 {
			t.Fatalf("GetByKey(%q): view=%+v err=%v", key, v, err)
		}
	}
	if calls := h.fetcher.calls.Load(); calls != 1 {
		t.Fatalf("remote calls=%d, stored row should answer every case variant", calls)
	}
}

func TestAlternateFormUsesSpeciesReference(t *testing.T) {
	h := newHarness(t, nil)
	p := payload(10034, "charizard-mega-x", []string{"fire", "dragon"})
	p.Species = pokeapi.NamedResource{Name: "charizard"}
	h.fetcher.add(p, "")
	h.fetcher.mu.Lock()
	h.fetcher.species["charizard"] = &pokeapi.Species{ID: 6, Name: "charizard", Names: []pokeapi.SpeciesName{
		{Name: "리자몽", Language: pokeapi.NamedResource{Name: "ko"}},
	}}
	h.fetcher.mu.Unlock()

	v, err := h.svc.GetByKey(context.Background(), "10034")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if v.Name != "리자몽" || v.EnglishName != "charizard-mega-x" {
		t.Fatalf("view=%+v", v)
	}
}
