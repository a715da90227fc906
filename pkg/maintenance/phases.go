package maintenance

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/coraldb/maintd/pkg/types"
)

// ActionQueue receives generated actions one at a time, in generation order.
// The implementation hands them to the external action executor; it must not
// block the reconciliation pass.
type ActionQueue interface {
	Add(action types.Action)
}

// ChangeResult aggregates the outputs of one full reconciliation pass.
type ChangeResult struct {
	// Report is the composed progress report: phaseOne, the consulted
	// Plan version, phaseTwo with its report operations, and the
	// consulted Current version.
	Report types.Document

	// Actions is the number of corrective actions handed to the queue.
	Actions int

	// Operations are the state-report writes of phase two, also embedded
	// in Report under phaseTwo.
	Operations types.ReportOps

	// Transactions are the database-creation bookkeeping writes.
	Transactions []types.Transaction
}

// PhaseOne compares the plan against local state and feeds the corrective
// actions to the queue. An internal failure degrades to "no actions this
// pass" and is reported as a non-fatal error.
func PhaseOne(plan *types.Plan, local types.Local, serverID string, queue ActionQueue) (queued int, err error) {
	defer recoverPhase("phaseOne", &err)

	for _, action := range DiffPlanLocal(plan, local, serverID) {
		logger().Debug().
			Str("action", action.Name).
			Str("database", action.Params[types.ParamDatabase]).
			Str("collection", action.Params[types.ParamCollection]).
			Msg("queueing action")
		queue.Add(action)
		queued++
	}
	return queued, nil
}

// PhaseTwo reports local state upward and schedules follower catch-up. The
// reporting half and the synchronization half are bounded independently, so
// a failure in one still lets the other contribute.
func PhaseTwo(plan *types.Plan, current *types.Current, local types.Local, serverID string, engine StorageEngine, queue ActionQueue) (ops types.ReportOps, txns []types.Transaction, err error) {
	var reportErr, syncErr error

	func() {
		defer recoverPhase("reportInCurrent", &reportErr)
		ops = ReportInCurrent(plan, current, local, serverID, engine)
		txns = DiffLocalCurrent(local, current)
	}()

	func() {
		defer recoverPhase("syncShards", &syncErr)
		for _, action := range SyncReplicatedShardsWithLeaders(plan, current, local, serverID) {
			logger().Debug().
				Str("action", action.Name).
				Str("shard", action.Params[types.ParamShard]).
				Str("leader", action.Params[types.ParamLeader]).
				Msg("queueing action")
			queue.Add(action)
		}
	}()

	return ops, txns, errors.Join(reportErr, syncErr)
}

// HandleChange runs both reconciliation phases against the supplied
// snapshots and composes the progress report. Phase two always runs,
// whatever happened to phase one; a failing phase contributes nothing but
// never aborts the pass. The returned error is informational and non-fatal:
// the next pass re-snapshots and retries naturally.
func HandleChange(plan *types.Plan, current *types.Current, local types.Local, serverID string, engine StorageEngine, queue ActionQueue) (*ChangeResult, error) {
	report := types.Document{}

	queued, phaseOneErr := PhaseOne(plan, local, serverID, queue)
	report["phaseOne"] = types.Document{"actions": queued}
	report["Plan"] = types.Document{"Version": plan.Version}

	ops, txns, phaseTwoErr := PhaseTwo(plan, current, local, serverID, engine, queue)
	phaseTwo := types.Document{}
	for path, op := range ops {
		phaseTwo[path] = op
	}
	report["phaseTwo"] = phaseTwo
	report["Current"] = types.Document{"Version": current.Version}

	result := &ChangeResult{
		Report:       report,
		Actions:      queued,
		Operations:   ops,
		Transactions: txns,
	}
	return result, errors.Join(phaseOneErr, phaseTwoErr)
}

// recoverPhase is the failure boundary of a phase: a panic anywhere below is
// logged with its stack and converted into a non-fatal error.
func recoverPhase(phase string, err *error) {
	if r := recover(); r != nil {
		logger().Error().
			Str("phase", phase).
			Interface("panic", r).
			Bytes("stack", debug.Stack()).
			Msg("reconciliation phase failed")
		*err = fmt.Errorf("%s: %v", phase, r)
	}
}
