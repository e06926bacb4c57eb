package booking

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/vacation-rental-booking/internal/model"
)

// fakeBookingStore is an in-memory BookingStore. Setting failWith makes
// every method return that error, simulating an unreachable store.
type fakeBookingStore struct {
	mu       sync.Mutex
	items    []model.Booking
	nextID   uint64
	failWith error
}

func (s *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	s.items = append(s.items, *b)
	return nil
}

func (s *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for i := range s.items {
		if s.items[i].ID == id {
			b := s.items[i]
			return &b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeBookingStore) List(_ context.Context, startDate, endDate string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]model.Booking, 0, len(s.items))
	for _, b := range s.items {
		if startDate != "" && !Overlaps(b.StartDate, b.EndDate, startDate, endDate) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

func (s *fakeBookingStore) CountOverlapping(_ context.Context, startDate, endDate string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	n := 0
	for _, b := range s.items {
		if b.Status == model.StatusCancelled {
			continue
		}
		if Overlaps(b.StartDate, b.EndDate, startDate, endDate) {
			n++
		}
	}
	return n, nil
}

func (s *fakeBookingStore) UpdateStatus(_ context.Context, id uint64, from, to model.Status) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	for i := range s.items {
		if s.items[i].ID == id && s.items[i].Status == from {
			s.items[i].Status = to
			s.items[i].UpdatedAt = time.Now().UTC()
			return 1, nil
		}
	}
	return 0, nil
}

// fakeBlockedStore is an in-memory BlockedPeriodStore.
type fakeBlockedStore struct {
	mu       sync.Mutex
	items    []model.BlockedPeriod
	nextID   uint64
	failWith error
}

func (s *fakeBlockedStore) Create(_ context.Context, p *model.BlockedPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = time.Now().UTC()
	s.items = append(s.items, *p)
	return nil
}

func (s *fakeBlockedStore) List(_ context.Context) ([]model.BlockedPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := append([]model.BlockedPeriod(nil), s.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

func (s *fakeBlockedStore) Delete(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeBlockedStore) CountOverlapping(_ context.Context, startDate, endDate string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	n := 0
	for _, p := range s.items {
		if Overlaps(p.StartDate, p.EndDate, startDate, endDate) {
			n++
		}
	}
	return n, nil
}

const testNightlyRateCents = 25000 // $250/night

func newTestEngine() (*Engine, *fakeBookingStore, *fakeBlockedStore) {
	bs := &fakeBookingStore{}
	ps := &fakeBlockedStore{}
	return NewEngine(bs, ps, testNightlyRateCents), bs, ps
}

func draft(start, end string) Draft {
	return Draft{
		StartDate:  start,
		EndDate:    end,
		GuestName:  "Jordan Blake",
		GuestEmail: "jordan@example.com",
		PartySize:  2,
	}
}

func TestCheckAvailabilityEmptyStore(t *testing.T) {
	e, _, _ := newTestEngine()
	ok, err := e.CheckAvailability(context.Background(), "2024-07-01", "2024-07-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected empty store to be available")
	}
}

func TestCheckAvailabilityInvalidRange(t *testing.T) {
	e, _, _ := newTestEngine()
	cases := []struct{ name, start, end string }{
		{"equal dates", "2024-07-01", "2024-07-01"},
		{"inverted dates", "2024-07-05", "2024-07-01"},
		{"malformed start", "July 1st", "2024-07-05"},
		{"malformed end", "2024-07-01", "2024-7-5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.CheckAvailability(context.Background(), tc.start, tc.end)
			if !errors.Is(err, ErrInvalidRange) {
				t.Fatalf("expected ErrInvalidRange, got %v", err)
			}
		})
	}
}

// The service deliberately uses non-strict inequality, so a candidate
// whose check-in equals an existing check-out conflicts. The strict
// rule (which would permit same-day turnover) is exercised alongside it
// so that a future policy change only flips these expectations.
func TestOverlapPredicate(t *testing.T) {
	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     string
		inclusive                      bool
		strict                         bool
	}{
		{"disjoint before", "2024-06-01", "2024-06-05", "2024-06-10", "2024-06-15", false, false},
		{"disjoint after", "2024-06-20", "2024-06-25", "2024-06-10", "2024-06-15", false, false},
		{"contained", "2024-06-11", "2024-06-13", "2024-06-10", "2024-06-15", true, true},
		{"containing", "2024-06-01", "2024-06-30", "2024-06-10", "2024-06-15", true, true},
		{"partial overlap", "2024-06-12", "2024-06-18", "2024-06-10", "2024-06-15", true, true},
		{"checkin on checkout day", "2024-06-10", "2024-06-15", "2024-06-15", "2024-06-20", true, false},
		{"checkout on checkin day", "2024-06-05", "2024-06-10", "2024-06-10", "2024-06-15", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.inclusive {
				t.Errorf("Overlaps(%s,%s | %s,%s) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.inclusive)
			}
			strict := tc.aStart < tc.bEnd && tc.aEnd > tc.bStart
			if strict != tc.strict {
				t.Errorf("strict overlap = %v, want %v", strict, tc.strict)
			}
		})
	}
}

func TestTouchingEndpointsConflict(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	if _, err := e.CreateBooking(ctx, draft("2024-06-15", "2024-06-20")); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	ok, err := e.CheckAvailability(ctx, "2024-06-10", "2024-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("touching endpoints must count as a conflict")
	}
}

func TestBookingFlowEndToEnd(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	ok, err := e.CheckAvailability(ctx, "2024-07-01", "2024-07-05")
	if err != nil || !ok {
		t.Fatalf("want available on empty store, got ok=%v err=%v", ok, err)
	}

	b, err := e.CreateBooking(ctx, draft("2024-07-01", "2024-07-05"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if b.Status != model.StatusPending {
		t.Fatalf("expected pending status, got %s", b.Status)
	}
	if want := int64(4 * testNightlyRateCents); b.TotalPriceCents != want {
		t.Fatalf("total price = %d, want %d (4 nights)", b.TotalPriceCents, want)
	}

	ok, err = e.CheckAvailability(ctx, "2024-07-01", "2024-07-05")
	if err != nil {
		t.Fatalf("re-check: %v", err)
	}
	if ok {
		t.Fatal("range must be unavailable after booking")
	}

	if _, err := e.CreateBooking(ctx, draft("2024-07-01", "2024-07-05")); !errors.Is(err, ErrConflict) {
		t.Fatalf("second create: expected ErrConflict, got %v", err)
	}
}

func TestCheckAvailabilityIdempotent(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	if _, err := e.CreateBooking(ctx, draft("2024-07-01", "2024-07-05")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for i := 0; i < 5; i++ {
		ok, err := e.CheckAvailability(ctx, "2024-07-03", "2024-07-08")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if ok {
			t.Fatalf("call %d: result changed with no intervening writes", i)
		}
	}
}

func TestCancelledBookingDoesNotBlock(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	b, err := e.CreateBooking(ctx, draft("2024-07-01", "2024-07-05"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if ok, _ := e.CheckAvailability(ctx, "2024-07-01", "2024-07-05"); ok {
		t.Fatal("expected conflict before cancellation")
	}
	cancelled, err := e.CancelBooking(ctx, b.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Fatalf("status = %s, want %s", cancelled.Status, model.StatusCancelled)
	}
	ok, err := e.CheckAvailability(ctx, "2024-07-01", "2024-07-05")
	if err != nil {
		t.Fatalf("re-check: %v", err)
	}
	if !ok {
		t.Fatal("cancelled booking must not block new bookings")
	}
}

func TestBlockedPeriodBlocks(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	reason := "maintenance"
	if _, err := e.AddBlockedPeriod(ctx, "2024-08-01", "2024-08-10", &reason); err != nil {
		t.Fatalf("block: %v", err)
	}
	ok, err := e.CheckAvailability(ctx, "2024-08-05", "2024-08-12")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Fatal("range overlapping a blocked period must be unavailable")
	}
	if _, err := e.CreateBooking(ctx, draft("2024-08-05", "2024-08-12")); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRemoveBlockedPeriodRestoresAvailability(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	p, err := e.AddBlockedPeriod(ctx, "2024-08-01", "2024-08-10", nil)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := e.RemoveBlockedPeriod(ctx, p.ID); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if ok, _ := e.CheckAvailability(ctx, "2024-08-05", "2024-08-12"); !ok {
		t.Fatal("expected availability after removing the blocked period")
	}
	if err := e.RemoveBlockedPeriod(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListBookingsFilterAndOrder(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	if _, err := e.CreateBooking(ctx, draft("2024-02-01", "2024-02-05")); err != nil {
		t.Fatalf("seed feb: %v", err)
	}
	if _, err := e.CreateBooking(ctx, draft("2024-01-01", "2024-01-05")); err != nil {
		t.Fatalf("seed jan: %v", err)
	}

	all, err := e.ListBookings(ctx, "", "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(all))
	}
	if all[0].StartDate != "2024-01-01" || all[1].StartDate != "2024-02-01" {
		t.Fatalf("expected ascending start-date order, got %s then %s", all[0].StartDate, all[1].StartDate)
	}

	jan, err := e.ListBookings(ctx, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(jan) != 1 || jan[0].StartDate != "2024-01-01" {
		t.Fatalf("expected only the January booking, got %+v", jan)
	}

	if _, err := e.ListBookings(ctx, "2024-01-01", ""); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("one-sided filter: expected ErrInvalidRange, got %v", err)
	}
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = e.CreateBooking(ctx, draft("2024-09-10", "2024-09-14"))
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one successful booking, got %d", wins)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
}

func TestStoreFailureIsNotUnavailability(t *testing.T) {
	e, bs, _ := newTestEngine()
	bs.failWith = errors.New("connection refused")
	_, err := e.CheckAvailability(context.Background(), "2024-07-01", "2024-07-05")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, ErrConflict) {
		t.Fatal("a store failure must be distinguishable from a conflict")
	}
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		prepare model.Status
		next    model.Status
		wantErr error
	}{
		{"pending to confirmed", model.StatusPending, model.StatusConfirmed, nil},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, nil},
		{"confirmed to cancelled", model.StatusConfirmed, model.StatusCancelled, nil},
		{"confirmed to pending", model.StatusConfirmed, model.StatusPending, ErrInvalidTransition},
		{"cancelled is immutable", model.StatusCancelled, model.StatusConfirmed, ErrInvalidTransition},
		{"unknown status", model.StatusPending, model.Status("refunded"), ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, bs, _ := newTestEngine()
			b, err := e.CreateBooking(ctx, draft("2024-07-01", "2024-07-05"))
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
			if tc.prepare != model.StatusPending {
				bs.mu.Lock()
				bs.items[0].Status = tc.prepare
				bs.mu.Unlock()
			}
			updated, err := e.UpdateStatus(ctx, b.ID, tc.next)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Status != tc.next {
				t.Fatalf("status = %s, want %s", updated.Status, tc.next)
			}
		})
	}
}

func TestUpdateStatusUnknownID(t *testing.T) {
	e, _, _ := newTestEngine()
	if _, err := e.UpdateStatus(context.Background(), 42, model.StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	e, _, _ := newTestEngine()
	ctx := context.Background()
	cases := []struct {
		name   string
		mutate func(*Draft)
	}{
		{"missing name", func(d *Draft) { d.GuestName = "  " }},
		{"missing email", func(d *Draft) { d.GuestEmail = "" }},
		{"bad email", func(d *Draft) { d.GuestEmail = "not-an-email" }},
		{"zero party", func(d *Draft) { d.PartySize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := draft("2024-07-01", "2024-07-05")
			tc.mutate(&d)
			_, err := e.CreateBooking(ctx, d)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	// Nothing was written during any of the rejected attempts.
	if ok, _ := e.CheckAvailability(ctx, "2024-07-01", "2024-07-05"); !ok {
		t.Fatal("validation failures must not persist bookings")
	}
}

func TestNights(t *testing.T) {
	if n := Nights("2024-07-01", "2024-07-05"); n != 4 {
		t.Fatalf("Nights = %d, want 4", n)
	}
	if n := Nights("2024-12-30", "2025-01-02"); n != 3 {
		t.Fatalf("Nights across year boundary = %d, want 3", n)
	}
}
