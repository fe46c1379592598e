package services

import (
	"github.com/dukex/n8nsync/pkg/models"
)

// MatchKey is the identity a local snapshot and a remote workflow share. Two
// workflows are the same exactly when their names are byte-for-byte equal.
type MatchKey struct {
	name string
}

// KeyOf returns the match key of a workflow name.
func KeyOf(name string) MatchKey {
	return MatchKey{name: name}
}

func (k MatchKey) String() string {
	return k.name
}

// RemoteIndex looks remote workflows up by MatchKey.
type RemoteIndex struct {
	byKey      map[MatchKey]models.RemoteSummary
	names      []string
	duplicates []models.RemoteSummary
}

// NewRemoteIndex indexes workflows in listing order. When two share a name the
// first one listed wins; the rest are reported by Duplicates.
func NewRemoteIndex(workflows []*models.Workflow) RemoteIndex {
	index := RemoteIndex{
		byKey: make(map[MatchKey]models.RemoteSummary, len(workflows)),
		names: make([]string, 0, len(workflows)),
	}

	for _, wf := range workflows {
		index.names = append(index.names, wf.Name)

		key := KeyOf(wf.Name)
		if _, exists := index.byKey[key]; exists {
			index.duplicates = append(index.duplicates, wf.Summary())

			continue
		}

		index.byKey[key] = wf.Summary()
	}

	return index
}

// Lookup returns the remote workflow whose name equals name.
func (i RemoteIndex) Lookup(name string) (models.RemoteSummary, bool) {
	summary, ok := i.byKey[KeyOf(name)]

	return summary, ok
}

// Names returns every remote name in listing order.
func (i RemoteIndex) Names() []string {
	return i.names
}

// Duplicates returns the workflows shadowed by an earlier one of the same name.
func (i RemoteIndex) Duplicates() []models.RemoteSummary {
	return i.duplicates
}

// Len returns the number of distinct names.
func (i RemoteIndex) Len() int {
	return len(i.byKey)
}

// ActionKind is the decision taken for one local snapshot.
type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionUpdate
	ActionSkipPlaceholder
	ActionSkipNoMatch
)

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionSkipPlaceholder:
		return "skip-placeholder"
	case ActionSkipNoMatch:
		return "skip-no-match"
	default:
		return "unknown"
	}
}

// IsSkip reports whether the action makes no remote call.
func (k ActionKind) IsSkip() bool {
	return k == ActionSkipPlaceholder || k == ActionSkipNoMatch
}

// Action is the outcome of Reconcile. RemoteID and RemoteActive are set for
// ActionUpdate only.
type Action struct {
	Kind         ActionKind
	RemoteID     string
	RemoteActive bool
}

// ReconcileOptions tunes Reconcile.
type ReconcileOptions struct {
	// UpdateOnly turns would-be creates into ActionSkipNoMatch.
	UpdateOnly bool
}

// Reconcile decides what to do with one local snapshot.
func Reconcile(local *models.Snapshot, index RemoteIndex, opts ReconcileOptions) Action {
	if local.IsPlaceholder() {
		return Action{Kind: ActionSkipPlaceholder}
	}

	if remote, ok := index.Lookup(local.Name); ok {
		return Action{Kind: ActionUpdate, RemoteID: remote.ID, RemoteActive: remote.Active}
	}

	if opts.UpdateOnly {
		return Action{Kind: ActionSkipNoMatch}
	}

	return Action{Kind: ActionCreate}
}
