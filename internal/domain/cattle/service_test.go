package cattle

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo struct {
	cows []Cow
}

func (r *fakeRepo) Create(_ context.Context, c Cow) error {
	r.cows = append(r.cows, c)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, c Cow) error {
	for i := range r.cows {
		if r.cows[i].ID == c.ID {
			r.cows[i] = c
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (Cow, error) {
	for _, c := range r.cows {
		if c.ID == id {
			return c, nil
		}
	}
	return Cow{}, ErrNotFound
}

func (r *fakeRepo) ListByEarTag(_ context.Context, earTag string) ([]Cow, error) {
	var out []Cow
	for _, c := range r.cows {
		if c.EarTagID == earTag {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByEarTagAndYear(_ context.Context, earTag string, year int) ([]Cow, error) {
	var out []Cow
	for _, c := range r.cows {
		if c.EarTagID == earTag && c.BirthYear != nil && *c.BirthYear == year {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByRFID(_ context.Context, rfid string) (Cow, error) {
	for _, c := range r.cows {
		if c.RFID != "" && c.RFID == rfid {
			return c, nil
		}
	}
	return Cow{}, ErrNotFound
}

func intPtr(n int) *int { return &n }

func TestMatch_EarTagAndYearNarrows(t *testing.T) {
	repo := &fakeRepo{cows: []Cow{
		{ID: "c1", EarTagID: "A123", BirthYear: intPtr(2019)},
		{ID: "c2", EarTagID: "A123", BirthYear: intPtr(2021)},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	// solo caravana: las dos
	cows, err := svc.Match(ctx, MatchQuery{EarTagID: "A123"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cows) != 2 {
		t.Fatalf("expected 2 matches by ear tag, got %d", len(cows))
	}

	// caravana + año: una sola
	cows, err = svc.Match(ctx, MatchQuery{EarTagID: "A123", BirthYear: intPtr(2021)})
	if err != nil {
		t.Fatal(err)
	}
	if len(cows) != 1 || cows[0].ID != "c2" {
		t.Fatalf("expected c2 by ear tag + year, got %+v", cows)
	}
}

func TestMatch_RFIDOnlyAndEmpty(t *testing.T) {
	repo := &fakeRepo{cows: []Cow{
		{ID: "c1", EarTagID: "A123", RFID: "982001"},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	cows, err := svc.Match(ctx, MatchQuery{RFID: "982001"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cows) != 1 || cows[0].ID != "c1" {
		t.Fatalf("expected c1 by rfid, got %+v", cows)
	}

	cows, err = svc.Match(ctx, MatchQuery{})
	if err != nil || cows != nil {
		t.Fatalf("empty query should match nothing, got %v %v", cows, err)
	}
}

func TestMatch_ConflictingIdentifiers(t *testing.T) {
	repo := &fakeRepo{cows: []Cow{
		{ID: "c1", EarTagID: "A123"},
		{ID: "c2", EarTagID: "B456", RFID: "982002"},
	}}
	svc := NewService(repo)

	// la caravana apunta a c1, el RFID a c2: alguno está mal cargado
	_, err := svc.Match(context.Background(), MatchQuery{EarTagID: "A123", RFID: "982002"})
	if !errors.Is(err, ErrConflictingIDs) {
		t.Fatalf("got %v, want ErrConflictingIDs", err)
	}
}

func TestMatch_SameCowByBothIDs(t *testing.T) {
	repo := &fakeRepo{cows: []Cow{
		{ID: "c1", EarTagID: "A123", RFID: "982001"},
	}}
	svc := NewService(repo)

	cows, err := svc.Match(context.Background(), MatchQuery{EarTagID: "A123", RFID: "982001"})
	if err != nil {
		t.Fatal(err)
	}
	// sin duplicar: la misma vaca entra una sola vez
	if len(cows) != 1 {
		t.Fatalf("expected 1 deduplicated match, got %d", len(cows))
	}
}

func TestExists(t *testing.T) {
	repo := &fakeRepo{cows: []Cow{
		{ID: "c1", EarTagID: "A123", RFID: "982001", BirthYear: intPtr(2020)},
		{ID: "c2", EarTagID: "DUP"},
		{ID: "c3", EarTagID: "DUP"},
	}}
	svc := NewService(repo)
	ctx := context.Background()

	res, err := svc.Exists(ctx, "A123")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exists || res.MultipleMatches || res.Cow == nil || res.Cow.RFID != "982001" {
		t.Fatalf("unexpected result: %+v", res)
	}

	res, err = svc.Exists(ctx, "DUP")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Exists || !res.MultipleMatches || res.Cow != nil {
		t.Fatalf("expected multiple matches without single cow, got %+v", res)
	}

	res, err = svc.Exists(ctx, "NOPE")
	if err != nil {
		t.Fatal(err)
	}
	if res.Exists {
		t.Fatal("expected not exists")
	}

	if _, err := svc.Exists(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty ear tag: got %v, want ErrInvalidInput", err)
	}
}

func TestCreateOrUpdate(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	// sin match => crea
	c, err := svc.CreateOrUpdate(ctx, UpsertInput{EarTagID: "A123", BirthYear: "2020"})
	if err != nil {
		t.Fatal(err)
	}
	if c.ID == "" || c.BirthYear == nil || *c.BirthYear != 2020 {
		t.Fatalf("unexpected created cow: %+v", c)
	}

	// con match => actualiza rfid sobre la misma vaca
	updated, err := svc.CreateOrUpdate(ctx, UpsertInput{EarTagID: "A123", RFID: "982009"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != c.ID || updated.RFID != "982009" {
		t.Fatalf("expected rfid update on same cow, got %+v", updated)
	}

	// dos vacas con la misma caravana y sin año => ambiguo
	repo.cows = append(repo.cows, Cow{ID: "c9", EarTagID: "A123"})
	if _, err := svc.CreateOrUpdate(ctx, UpsertInput{EarTagID: "A123"}); !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("got %v, want ErrAmbiguousMatch", err)
	}
}

func TestGetOrCreate_RefreshesRFID(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	c, created, updated, err := svc.GetOrCreate(ctx, UpsertInput{EarTagID: "A123", BirthYear: "2020", RFID: "982001"})
	if err != nil {
		t.Fatal(err)
	}
	if !created || updated {
		t.Fatalf("expected fresh create, got created=%v updated=%v", created, updated)
	}

	// mismo animal, RFID nuevo en el archivo => refresca
	c2, created, updated, err := svc.GetOrCreate(ctx, UpsertInput{EarTagID: "A123", BirthYear: "2020", RFID: "982777"})
	if err != nil {
		t.Fatal(err)
	}
	if created || !updated || c2.ID != c.ID || c2.RFID != "982777" {
		t.Fatalf("expected rfid refresh, got created=%v updated=%v cow=%+v", created, updated, c2)
	}

	// mismo animal, mismo RFID => no toca nada
	_, created, updated, err = svc.GetOrCreate(ctx, UpsertInput{EarTagID: "A123", BirthYear: "2020", RFID: "982777"})
	if err != nil {
		t.Fatal(err)
	}
	if created || updated {
		t.Fatalf("expected no-op, got created=%v updated=%v", created, updated)
	}

	if _, _, _, err := svc.GetOrCreate(ctx, UpsertInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty ear tag: got %v, want ErrInvalidInput", err)
	}
}

func TestCowHasBirthYear(t *testing.T) {
	year := 2020
	if (Cow{}).HasBirthYear() {
		t.Error("cow without birth year should report false")
	}
	if !(Cow{BirthYear: &year}).HasBirthYear() {
		t.Error("cow with birth year should report true")
	}
}
