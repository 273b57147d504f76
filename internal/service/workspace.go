package service

import (
	"context"
	"log"
	"sync"
	"time"

	"habit-planner/internal/repository"
)

// Workspace bundles one owner's services over a shared key-value scope.
type Workspace struct {
	Owner   string
	Tasks   *TaskService
	Journal *JournalService
	Account *AccountService

	now func() time.Time
}

func NewWorkspace(owner string, kv repository.KeyValueStore, auth AuthClient, now func() time.Time) *Workspace {
	if now == nil {
		now = time.Now
	}
	return &Workspace{
		Owner:   owner,
		Tasks:   NewTaskService(repository.NewTaskStoreRepository(kv)),
		Journal: NewJournalService(repository.NewJournalRepository(kv), now),
		Account: NewAccountService(auth, repository.NewAccountRepository(kv), now),
		now:     now,
	}
}

// Load reads every document. Failures are logged and leave defaults in place.
func (w *Workspace) Load(ctx context.Context) {
	if err := w.Tasks.Load(ctx); err != nil {
		log.Printf("[warn] load tasks for %s: %v", w.Owner, err)
	}
	if err := w.Journal.Load(ctx); err != nil {
		log.Printf("[warn] load journal for %s: %v", w.Owner, err)
	}
	if err := w.Account.Load(ctx); err != nil {
		log.Printf("[warn] load account for %s: %v", w.Owner, err)
	}
	w.Account.EnsureRegistered(ctx)
}

func (w *Workspace) Stats() Stats {
	return ComputeStats(w.Tasks.Snapshot(), w.Account.Current().RegisteredAt, w.now())
}

// Workspaces loads each owner's workspace on first use and caches it.
type Workspaces struct {
	open func(owner string) repository.KeyValueStore
	auth AuthClient
	now  func() time.Time

	mu      sync.Mutex
	byOwner map[string]*Workspace
}

func NewWorkspaces(open func(owner string) repository.KeyValueStore, auth AuthClient, now func() time.Time) *Workspaces {
	return &Workspaces{open: open, auth: auth, now: now, byOwner: make(map[string]*Workspace)}
}

func (ws *Workspaces) Get(ctx context.Context, owner string) *Workspace {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if w, ok := ws.byOwner[owner]; ok {
		return w
	}
	w := NewWorkspace(owner, ws.open(owner), ws.auth, ws.now)
	w.Load(ctx)
	ws.byOwner[owner] = w
	return w
}
