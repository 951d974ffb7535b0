package state

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lifeosapp/lifeos-api/internal/models"
)

func TestStore_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Update(func(s Snapshot) Snapshot {
		s.Goals = []models.Goal{{ID: uuid.New(), Title: "Original", Horizon: models.HorizonShort}}
		return s
	})

	snap := store.Snapshot()
	snap.Goals[0].Title = "Mutated"

	if got := store.Snapshot().Goals[0].Title; got != "Original" {
		t.Errorf("mutating a snapshot leaked into the store: %q", got)
	}
}

func TestStore_UpdateNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ch, unsubscribe := store.Subscribe()
	defer unsubscribe()

	store.Update(func(s Snapshot) Snapshot {
		s.Tasks = []models.Task{{ID: uuid.New(), Title: "Write tests", Status: models.TaskStatusOpen}}
		return s
	})

	select {
	case snap := <-ch:
		if len(snap.Tasks) != 1 || snap.Tasks[0].Title != "Write tests" {
			t.Errorf("unexpected snapshot: %+v", snap.Tasks)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a notification after update")
	}
}

func TestStore_SubscribersDoNotShareSnapshots(t *testing.T) {
	t.Parallel()

	store := NewStore()
	chA, unsubA := store.Subscribe()
	defer unsubA()
	chB, unsubB := store.Subscribe()
	defer unsubB()

	store.Update(func(s Snapshot) Snapshot {
		s.Goals = []models.Goal{{ID: uuid.New(), Title: "Shared", Horizon: models.HorizonLong}}
		return s
	})

	var snapA, snapB Snapshot
	for _, rcv := range []struct {
		ch   <-chan Snapshot
		dest *Snapshot
	}{{chA, &snapA}, {chB, &snapB}} {
		select {
		case *rcv.dest = <-rcv.ch:
		case <-time.After(time.Second):
			t.Fatal("expected a notification")
		}
	}

	snapA.Goals[0].Title = "Mutated"

	if got := snapB.Goals[0].Title; got != "Shared" {
		t.Errorf("mutating one subscriber's snapshot leaked into another's: %q", got)
	}
	if got := store.Snapshot().Goals[0].Title; got != "Shared" {
		t.Errorf("mutating a delivered snapshot leaked into the store: %q", got)
	}
}

func TestStore_CoalescesMissedUpdates(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ch, unsubscribe := store.Subscribe()
	defer unsubscribe()

	for i := 0; i < 5; i++ {
		title := string(rune('a' + i))
		store.Update(func(s Snapshot) Snapshot {
			s.Goals = []models.Goal{{ID: uuid.New(), Title: title, Horizon: models.HorizonMid}}
			return s
		})
	}

	// Slow subscriber sees only the latest state
	select {
	case snap := <-ch:
		if snap.Goals[0].Title != "e" {
			t.Errorf("expected latest snapshot, got %q", snap.Goals[0].Title)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
	}
}

func TestStore_Unsubscribe(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ch, unsubscribe := store.Subscribe()
	unsubscribe()

	// Channel is closed and no longer receives updates
	if _, ok := <-ch; ok {
		t.Error("expected closed channel after unsubscribe")
	}

	// A second unsubscribe is a no-op, not a double close
	unsubscribe()

	store.Update(func(s Snapshot) Snapshot { return s })
}
