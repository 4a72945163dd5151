package pregchecks

import (
	"context"
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"ranch-pregcheck/internal/domain/cattle"
)

// fakes mínimos en memoria, sin locking: los tests son secuenciales.

type fakeRepo struct {
	checks []PregCheck
}

func (r *fakeRepo) Create(_ context.Context, p PregCheck) error {
	r.checks = append(r.checks, p)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, p PregCheck) error {
	for i := range r.checks {
		if r.checks[i].ID == p.ID {
			r.checks[i] = p
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (PregCheck, error) {
	for _, p := range r.checks {
		if p.ID == id {
			return p, nil
		}
	}
	return PregCheck{}, ErrNotFound
}

func (r *fakeRepo) ListBySeason(_ context.Context, season, limit int) ([]PregCheck, error) {
	var out []PregCheck
	for _, p := range r.checks {
		if p.BreedingSeason == season {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := time.Time{}, time.Time{}
		if out[i].CheckDate != nil {
			di = *out[i].CheckDate
		}
		if out[j].CheckDate != nil {
			dj = *out[j].CheckDate
		}
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) ListByCows(_ context.Context, cowIDs []string) ([]PregCheck, error) {
	ids := map[string]struct{}{}
	for _, id := range cowIDs {
		ids[id] = struct{}{}
	}
	var out []PregCheck
	for _, p := range r.checks {
		if _, ok := ids[p.CowID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountByCowAndSeason(_ context.Context, cowID string, season int) (int, error) {
	n := 0
	for _, p := range r.checks {
		if p.CowID == cowID && p.BreedingSeason == season {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) LastCreated(_ context.Context) (PregCheck, error) {
	if len(r.checks) == 0 {
		return PregCheck{}, ErrNotFound
	}
	last := r.checks[0]
	for _, p := range r.checks[1:] {
		if p.CreatedAt.After(last.CreatedAt) {
			last = p
		}
	}
	return last, nil
}

func (r *fakeRepo) LatestSeason(_ context.Context) (int, error) {
	latest := 0
	for _, p := range r.checks {
		if p.BreedingSeason > latest {
			latest = p.BreedingSeason
		}
	}
	if latest == 0 {
		return 0, ErrNotFound
	}
	return latest, nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]PregCheck, error) {
	return append([]PregCheck(nil), r.checks...), nil
}

type fakeCattleRepo struct {
	cows []cattle.Cow
}

func (r *fakeCattleRepo) Create(_ context.Context, c cattle.Cow) error {
	r.cows = append(r.cows, c)
	return nil
}

func (r *fakeCattleRepo) Update(_ context.Context, c cattle.Cow) error {
	for i := range r.cows {
		if r.cows[i].ID == c.ID {
			r.cows[i] = c
			return nil
		}
	}
	return cattle.ErrNotFound
}

func (r *fakeCattleRepo) GetByID(_ context.Context, id string) (cattle.Cow, error) {
	for _, c := range r.cows {
		if c.ID == id {
			return c, nil
		}
	}
	return cattle.Cow{}, cattle.ErrNotFound
}

func (r *fakeCattleRepo) ListByEarTag(_ context.Context, earTag string) ([]cattle.Cow, error) {
	var out []cattle.Cow
	for _, c := range r.cows {
		if c.EarTagID == earTag {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCattleRepo) ListByEarTagAndYear(_ context.Context, earTag string, year int) ([]cattle.Cow, error) {
	var out []cattle.Cow
	for _, c := range r.cows {
		if c.EarTagID == earTag && c.BirthYear != nil && *c.BirthYear == year {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCattleRepo) GetByRFID(_ context.Context, rfid string) (cattle.Cow, error) {
	for _, c := range r.cows {
		if c.RFID != "" && c.RFID == rfid {
			return c, nil
		}
	}
	return cattle.Cow{}, cattle.ErrNotFound
}

func newTestService(cowRepo *fakeCattleRepo, repo *fakeRepo) *Service {
	return &Service{
		repo: repo,
		cows: cattle.NewService(cowRepo),
		now:  func() time.Time { return time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC) },
	}
}

func boolPtr(b bool) *bool { return &b }

func TestStats_SummaryArithmetic(t *testing.T) {
	repo := &fakeRepo{}

	// 10 preñadas (2 re-palpación), 5 vacías (1 re-palpación)
	for i := 0; i < 10; i++ {
		repo.checks = append(repo.checks, PregCheck{
			BreedingSeason: 2025, IsPregnant: boolPtr(true), Recheck: i < 2,
		})
	}
	for i := 0; i < 5; i++ {
		repo.checks = append(repo.checks, PregCheck{
			BreedingSeason: 2025, IsPregnant: boolPtr(false), Recheck: i < 1,
		})
	}
	// otra temporada y sin resultado: no cuentan
	repo.checks = append(repo.checks,
		PregCheck{BreedingSeason: 2024, IsPregnant: boolPtr(true)},
		PregCheck{BreedingSeason: 2025},
	)

	svc := newTestService(&fakeCattleRepo{}, repo)
	stats, err := svc.Stats(context.Background(), 2025)
	if err != nil {
		t.Fatal(err)
	}

	if stats.FirstCheckPregnant != 8 {
		t.Errorf("first_check_pregnant = %d, want 8", stats.FirstCheckPregnant)
	}
	if stats.RecheckPregnant != 2 || stats.LessRecheckPregnant != 2 {
		t.Errorf("recheck_pregnant = %d / %d, want 2 / 2", stats.RecheckPregnant, stats.LessRecheckPregnant)
	}
	if stats.TotalPregnant != 10 {
		t.Errorf("total_pregnant = %d, want 10", stats.TotalPregnant)
	}
	if stats.FirstCheckOpen != 4 {
		t.Errorf("first_check_open = %d, want 4", stats.FirstCheckOpen)
	}
	// las re-palpaciones preñadas se descuentan de las vacías de primera pasada
	if stats.TotalOpen != 2 {
		t.Errorf("total_open = %d, want 2", stats.TotalOpen)
	}
	if stats.TotalCount != 12 {
		t.Errorf("total_count = %d, want 12", stats.TotalCount)
	}
	want := 10.0 / 12.0 * 100
	if math.Abs(stats.PregnancyRate-want) > 0.001 {
		t.Errorf("pregnancy_rate = %f, want %f", stats.PregnancyRate, want)
	}
}

func TestStats_EmptySeasonHasZeroRate(t *testing.T) {
	svc := newTestService(&fakeCattleRepo{}, &fakeRepo{})
	stats, err := svc.Stats(context.Background(), 2025)
	if err != nil {
		t.Fatal(err)
	}
	if stats.PregnancyRate != 0 || stats.TotalCount != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestCreate_IdentityRule(t *testing.T) {
	svc := newTestService(&fakeCattleRepo{}, &fakeRepo{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{BreedingSeason: 2025})
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("no identifier: got %v, want ErrMissingIdentifier", err)
	}

	_, err = svc.Create(ctx, CreateInput{EarTagID: "A123", NoID: true, BreedingSeason: 2025})
	if !errors.Is(err, ErrIdentifierWithNoID) {
		t.Errorf("identifier + no_id: got %v, want ErrIdentifierWithNoID", err)
	}

	_, err = svc.Create(ctx, CreateInput{EarTagID: "A123", BreedingSeason: 2025})
	if !errors.Is(err, ErrNoMatchingCow) {
		t.Errorf("unknown cow: got %v, want ErrNoMatchingCow", err)
	}

	// sin identificador pero con la marca explícita: válido, sin vaca
	rec, err := svc.Create(ctx, CreateInput{NoID: true, BreedingSeason: 2025, IsPregnant: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if rec.CowID != "" || rec.EarTagID != "" {
		t.Fatalf("no-id record should have no cow, got %+v", rec)
	}
}

func TestCreate_ResolvesCowAndAnnotates(t *testing.T) {
	year := 2020
	cowRepo := &fakeCattleRepo{cows: []cattle.Cow{
		{ID: "cow-1", EarTagID: "A123", BirthYear: &year, RFID: "982"},
	}}
	svc := newTestService(cowRepo, &fakeRepo{})

	rec, err := svc.Create(context.Background(), CreateInput{
		EarTagID: "A123", BreedingSeason: 2025, IsPregnant: boolPtr(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.CowID != "cow-1" || rec.EarTagID != "A123" || rec.RFID != "982" {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestPrevious_DefaultLimitAndOrder(t *testing.T) {
	repo := &fakeRepo{}
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := base.AddDate(0, 0, i)
		repo.checks = append(repo.checks, PregCheck{
			ID: string(rune('a' + i)), BreedingSeason: 2025,
			CheckDate: &d, CreatedAt: d,
		})
	}

	svc := newTestService(&fakeCattleRepo{}, repo)
	recs, err := svc.Previous(context.Background(), 2025, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected default limit 5, got %d", len(recs))
	}
	// más reciente primero
	if recs[0].ID != "g" || recs[4].ID != "c" {
		t.Fatalf("unexpected order: first=%s last=%s", recs[0].ID, recs[4].ID)
	}
}

func TestEdit_ReassignsCowOrFails(t *testing.T) {
	cowRepo := &fakeCattleRepo{cows: []cattle.Cow{
		{ID: "cow-1", EarTagID: "A123"},
		{ID: "cow-2", EarTagID: "B456"},
	}}
	repo := &fakeRepo{checks: []PregCheck{{ID: "pc-1", CowID: "cow-1", BreedingSeason: 2025}}}
	svc := newTestService(cowRepo, repo)
	ctx := context.Background()

	rec, err := svc.Edit(ctx, "pc-1", EditInput{EarTagID: "B456", BreedingSeason: 2025})
	if err != nil {
		t.Fatal(err)
	}
	if rec.CowID != "cow-2" {
		t.Fatalf("expected reassignment to cow-2, got %s", rec.CowID)
	}

	if _, err := svc.Edit(ctx, "pc-1", EditInput{EarTagID: "NOPE", BreedingSeason: 2025}); !errors.Is(err, ErrNoMatchingCow) {
		t.Errorf("missing cow: got %v, want ErrNoMatchingCow", err)
	}

	if _, err := svc.Edit(ctx, "missing", EditInput{BreedingSeason: 2025}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing pregcheck: got %v, want ErrNotFound", err)
	}
}

func TestSearch_RecheckDefaultAndAllKeyword(t *testing.T) {
	year := 2020
	cowRepo := &fakeCattleRepo{cows: []cattle.Cow{
		{ID: "cow-1", EarTagID: "A123", BirthYear: &year},
	}}
	now := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	cd := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{checks: []PregCheck{
		{ID: "pc-1", CowID: "cow-1", BreedingSeason: 2025, CheckDate: &cd, CreatedAt: now.Add(-time.Hour)},
	}}
	svc := newTestService(cowRepo, repo)
	ctx := context.Background()

	res, err := svc.Search(ctx, 2025, SearchInput{EarTagID: "A123"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.AnimalExists || res.Cow == nil || len(res.Records) != 1 {
		t.Fatalf("unexpected search result: %+v", res)
	}
	// ya tiene chequeo esta temporada => recheck por defecto
	if !res.Defaults.Recheck {
		t.Error("expected recheck default true")
	}
	// el último chequeo se creó "hoy" => arrastra la fecha
	if res.Defaults.CheckDate == nil || !res.Defaults.CheckDate.Equal(cd) {
		t.Errorf("expected carried check date %v, got %v", cd, res.Defaults.CheckDate)
	}

	all, err := svc.Search(ctx, 2025, SearchInput{EarTagID: "all"})
	if err != nil {
		t.Fatal(err)
	}
	if !all.AllPregChecks || len(all.Records) != 1 {
		t.Fatalf("unexpected 'all' result: %+v", all)
	}

	empty, err := svc.Search(ctx, 2025, SearchInput{})
	if err != nil {
		t.Fatal(err)
	}
	if empty.AnimalExists || len(empty.Records) != 0 {
		t.Fatalf("empty search should match nothing: %+v", empty)
	}
}
