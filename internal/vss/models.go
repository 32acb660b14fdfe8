package vss

import (
	"fmt"
	"strings"
	"time"
)

// ItemName identifies a VSS item both by its logical name and its physical file name.
type ItemName struct {
	LogicalName  string
	PhysicalName string
	IsProject    bool
}

// String returns the logical name, falling back to the physical name.
func (n ItemName) String() string {
	if n.LogicalName != "" {
		return n.LogicalName
	}
	return n.PhysicalName
}

// ActionKind represents the kind of mutation a revision performs.
type ActionKind int

const (
	ActionAdd ActionKind = iota
	ActionCreate
	ActionEdit
	ActionDelete
	ActionRename
	ActionMove
	ActionShare
	ActionBranch
	ActionLabel
	ActionDestroy
	ActionRecover
	ActionPin
)

var actionKindNames = [...]string{
	ActionAdd:     "add",
	ActionCreate:  "create",
	ActionEdit:    "edit",
	ActionDelete:  "delete",
	ActionRename:  "rename",
	ActionMove:    "move",
	ActionShare:   "share",
	ActionBranch:  "branch",
	ActionLabel:   "label",
	ActionDestroy: "destroy",
	ActionRecover: "recover",
	ActionPin:     "pin",
}

// String returns a string representation of the action kind.
func (k ActionKind) String() string {
	if k < 0 || int(k) >= len(actionKindNames) {
		return "unknown"
	}
	return actionKindNames[k]
}

// ParseActionKind parses the lower-case name produced by String.
func ParseActionKind(s string) (ActionKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range actionKindNames {
		if name == s {
			return ActionKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown action kind %q", s)
}

// Action describes one mutation. It is a closed variant: Kind selects which of the
// remaining fields are meaningful. Use the New* constructors rather than literals.
type Action struct {
	Kind ActionKind

	// name is the target item of every kind except Edit and Label.
	name ItemName

	physical     string // Edit
	label        string // Label
	originalName string // Rename
	fromPath     string // Move
	source       string // Branch
	pinned       bool   // Pin
	pinVersion   int    // Pin
}

func named(kind ActionKind, name ItemName) Action {
	return Action{Kind: kind, name: name}
}

func NewAdd(name ItemName) Action     { return named(ActionAdd, name) }
func NewCreate(name ItemName) Action  { return named(ActionCreate, name) }
func NewDelete(name ItemName) Action  { return named(ActionDelete, name) }
func NewShare(name ItemName) Action   { return named(ActionShare, name) }
func NewDestroy(name ItemName) Action { return named(ActionDestroy, name) }
func NewRecover(name ItemName) Action { return named(ActionRecover, name) }

// NewEdit returns an edit of the file with the given physical name.
func NewEdit(physicalName string) Action {
	return Action{Kind: ActionEdit, physical: physicalName}
}

// NewLabel returns a label action. An empty label is allowed and is named later.
func NewLabel(label string) Action {
	return Action{Kind: ActionLabel, label: label}
}

// NewRename returns a rename of name, previously called originalName.
func NewRename(name ItemName, originalName string) Action {
	a := named(ActionRename, name)
	a.originalName = originalName
	return a
}

// NewMove returns a move of name from the project at fromPath.
func NewMove(name ItemName, fromPath string) Action {
	a := named(ActionMove, name)
	a.fromPath = fromPath
	return a
}

// NewBranch returns a branch of name from the item with physical name source.
func NewBranch(name ItemName, source string) Action {
	a := named(ActionBranch, name)
	a.source = source
	return a
}

// NewPin returns a pin (pinned=true) or unpin of name at the given version.
func NewPin(name ItemName, pinned bool, version int) Action {
	a := named(ActionPin, name)
	a.pinned = pinned
	a.pinVersion = version
	return a
}

// Named returns the item this action targets when the action carries an explicit name.
func (a Action) Named() (ItemName, bool) {
	switch a.Kind {
	case ActionEdit, ActionLabel:
		return ItemName{}, false
	default:
		return a.name, true
	}
}

// TargetPhysicalName returns the physical name the action acts upon, if known.
func (a Action) TargetPhysicalName() string {
	if a.Kind == ActionEdit {
		return a.physical
	}
	if n, ok := a.Named(); ok {
		return n.PhysicalName
	}
	return ""
}

// Label returns the label text of a Label action.
func (a Action) Label() string { return a.label }

// PhysicalName returns the edited file of an Edit action.
func (a Action) PhysicalName() string { return a.physical }

// OriginalName returns the previous logical name of a Rename action.
func (a Action) OriginalName() string { return a.originalName }

// FromPath returns the source project of a Move action.
func (a Action) FromPath() string { return a.fromPath }

// Source returns the branched-from physical name of a Branch action.
func (a Action) Source() string { return a.source }

// Pinned reports whether a Pin action pins (true) or unpins (false).
func (a Action) Pinned() bool { return a.pinned }

// PinVersion returns the version a Pin action refers to.
func (a Action) PinVersion() int { return a.pinVersion }

// String returns a human-readable description of the action.
func (a Action) String() string {
	switch a.Kind {
	case ActionEdit:
		return "Edit " + a.physical
	case ActionLabel:
		return "Label " + a.label
	case ActionRename:
		return fmt.Sprintf("Rename %s to %s", a.originalName, a.name)
	case ActionMove:
		return fmt.Sprintf("Move %s from %s", a.name, a.fromPath)
	case ActionBranch:
		return fmt.Sprintf("Branch %s from %s", a.name, a.source)
	case ActionPin:
		if a.pinned {
			return fmt.Sprintf("Pin %s at %d", a.name, a.pinVersion)
		}
		return "Unpin " + a.name.String()
	default:
		kind := a.Kind.String()
		return strings.ToUpper(kind[:1]) + kind[1:] + " " + a.name.String()
	}
}

// RelativePath converts a VSS logical path such as "$/proj/a.txt" into a slash-separated
// path relative to the database root.
func RelativePath(vssPath string) string {
	p := strings.ReplaceAll(vssPath, "\\", "/")
	p = strings.TrimPrefix(p, "$")
	return strings.Trim(p, "/")
}

// Revision is one recorded mutation of one item at one instant.
// Revisions are values; use WithComment and WithAction to derive rewritten copies.
type Revision struct {
	Time    time.Time
	User    string
	Item    ItemName
	Path    string // logical path of Item
	Version int
	Comment string
	Action  Action
}

// WithComment returns a copy of r carrying comment.
func (r Revision) WithComment(comment string) Revision {
	r.Comment = comment
	return r
}

// WithAction returns a copy of r carrying action.
func (r Revision) WithAction(action Action) Revision {
	r.Action = action
	return r
}

// TargetFile returns the physical name the revision mutates: the named action's target
// when it has one, else the item itself.
func (r Revision) TargetFile() string {
	if n, ok := r.Action.Named(); ok {
		return n.PhysicalName
	}
	return r.Item.PhysicalName
}

// String formats the revision the way changeset dumps list it.
func (r Revision) String() string {
	return fmt.Sprintf("%s %s@%d %s", r.Time.Format("2006-01-02 15:04:05"), r.Item, r.Version, r.Action)
}
