package boardstate

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/ordering"
)

var (
	ErrMovePending = errors.New("boardstate: a move for this task is already pending")
	ErrNotPending  = errors.New("boardstate: move is not pending")

	// ErrColumnBusy is returned by Begin when another pending move touches
	// the source or target column.
	ErrColumnBusy = errors.New("boardstate: a pending move already touches this column")
)

type MoveState int

const (
	Idle MoveState = iota
	Pending
	Committed
	RolledBack
)

func (s MoveState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// PendingMove carries one optimistic move from Begin to Resolve.
type PendingMove struct {
	TaskID   uuid.UUID
	Intent   model.MoveRequest
	Snapshot Snapshot
	Plan     ordering.Plan
	State    MoveState
	Err      error
}

// Rollback rebuilds the projection as it was when pm began.
func Rollback(pm *PendingMove) *Board {
	return pm.Snapshot.Board()
}

// MoveAPI is the authoritative side of a move.
type MoveAPI interface {
	Move(ctx context.Context, id uuid.UUID, req model.MoveRequest) (*model.MoveResult, error)
}

// State owns the projection and the set of in-flight moves. The lock is
// never held across a call to the MoveAPI.
type State struct {
	mu      sync.Mutex
	board   *Board
	pending map[uuid.UUID]*PendingMove
	api     MoveAPI
	log     *logger.Logger
}

func New(api MoveAPI, tasks []model.Task, log *logger.Logger) *State {
	return &State{
		board:   NewBoard(tasks),
		pending: make(map[uuid.UUID]*PendingMove),
		api:     api,
		log:     log,
	}
}

// Board returns a copy of the current projection.
func (s *State) Board() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.clone()
}

// Reset replaces the projection with a fresh server read. In-flight moves
// are left to resolve against the new projection.
func (s *State) Reset(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = NewBoard(tasks)
}

// Begin snapshots the projection and applies the move tentatively. Pending
// moves never share a column, so each snapshot stays exact for the columns
// its move touches.
func (s *State) Begin(taskID uuid.UUID, req model.MoveRequest) (*PendingMove, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pending[taskID]; busy {
		return nil, ErrMovePending
	}
	task, ok := s.board.Task(taskID)
	if !ok {
		return nil, model.ErrTaskNotFound
	}
	if req.ExpectedVersion == nil {
		v := task.Version
		req.ExpectedVersion = &v
	}

	plan, err := ordering.PlanMove(s.board.cols, taskID, req.TargetColumn, ordering.TargetOf(req))
	if err != nil {
		return nil, err
	}
	if s.columnBusy(plan) {
		return nil, ErrColumnBusy
	}
	snap := s.board.Snapshot()

	pm := &PendingMove{
		TaskID:   taskID,
		Intent:   req,
		Snapshot: snap,
		Plan:     plan,
		State:    Pending,
	}
	if !plan.NoOp {
		s.board.replace(plan.Columns)
	}
	s.pending[taskID] = pm
	return pm, nil
}

// Resolve settles a pending move. On success the server's columns replace
// the local ones; on failure the touched columns are restored from the
// snapshot and err is returned.
func (s *State) Resolve(pm *PendingMove, result *model.MoveResult, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.pending[pm.TaskID]; !ok || cur != pm {
		return ErrNotPending
	}
	delete(s.pending, pm.TaskID)

	if err == nil && result == nil && !pm.Plan.NoOp {
		err = errors.New("boardstate: empty move result")
	}
	if err != nil {
		restored := Rollback(pm)
		for _, st := range touched(pm.Plan) {
			s.board.cols[st] = restored.cols[st]
		}
		pm.State = RolledBack
		pm.Err = err
		s.log.Infow("board_move_rolled_back", "task", pm.TaskID, "error", err)
		return err
	}

	if result != nil {
		s.board.replace(result.Columns)
	}
	pm.State = Committed
	return nil
}

// Move runs Begin, the server call and Resolve. A move the planner sees as a
// no-op is committed without a server call.
func (s *State) Move(ctx context.Context, taskID uuid.UUID, req model.MoveRequest) (*PendingMove, error) {
	pm, err := s.Begin(taskID, req)
	if err != nil {
		return nil, err
	}
	if pm.Plan.NoOp {
		return pm, s.Resolve(pm, nil, nil)
	}
	result, err := s.api.Move(ctx, taskID, pm.Intent)
	return pm, s.Resolve(pm, result, err)
}

func (s *State) columnBusy(p ordering.Plan) bool {
	for _, other := range s.pending {
		for _, a := range touched(other.Plan) {
			for _, b := range touched(p) {
				if a == b {
					return true
				}
			}
		}
	}
	return false
}

func touched(p ordering.Plan) []model.Status {
	if p.From == p.To {
		return []model.Status{p.From}
	}
	return []model.Status{p.From, p.To}
}
