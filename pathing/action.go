package pathing

// Action is one step of an agent's motion through the grid.
type Action int

const (
	MoveLeft Action = iota
	MoveRight
	FloatLeft
	FloatRight
	DashLeft
	DashRight
	Jump
	JumpContinue
	Drop
	DropLeft
	DropRight
	Land
	Arrive
)

var actionNames = [...]string{
	MoveLeft:     "MOVE_LEFT",
	MoveRight:    "MOVE_RIGHT",
	FloatLeft:    "FLOAT_LEFT",
	FloatRight:   "FLOAT_RIGHT",
	DashLeft:     "DASH_LEFT",
	DashRight:    "DASH_RIGHT",
	Jump:         "JUMP",
	JumpContinue: "JUMP_CONTINUE",
	Drop:         "DROP",
	DropLeft:     "DROP_LEFT",
	DropRight:    "DROP_RIGHT",
	Land:         "LAND",
	Arrive:       "ARRIVE",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "UNKNOWN"
	}
	return actionNames[a]
}

func (a Action) IsMove() bool {
	return a == MoveLeft || a == MoveRight
}

func (a Action) IsFloat() bool {
	return a == FloatLeft || a == FloatRight
}

func (a Action) IsDash() bool {
	return a == DashLeft || a == DashRight
}

func (a Action) IsJump() bool {
	return a == Jump || a == JumpContinue
}

func (a Action) IsDrop() bool {
	return a == Drop || a == DropLeft || a == DropRight
}

// IsAirborne reports whether a leaves the agent off the ground.
func (a Action) IsAirborne() bool {
	return a.IsJump() || a.IsDrop() || a.IsFloat() || a.IsDash()
}

// followUps is the grammar of motion: the actions that may legally follow
// each action, in the order they are tried before heuristic sorting.
var followUps = map[Action][]Action{
	Land:         {MoveLeft, MoveRight, Jump, DropLeft, DropRight},
	MoveLeft:     {MoveLeft, MoveRight, Jump, DropLeft, DropRight},
	MoveRight:    {MoveLeft, MoveRight, Jump, DropLeft, DropRight},
	Jump:         {JumpContinue, FloatLeft, FloatRight, DashLeft, DashRight, Drop},
	JumpContinue: {JumpContinue, FloatLeft, FloatRight, DashLeft, DashRight, Drop},
	FloatLeft:    {FloatLeft, FloatRight, DashLeft, DashRight, Drop, DropLeft, DropRight, Land},
	FloatRight:   {FloatLeft, FloatRight, DashLeft, DashRight, Drop, DropLeft, DropRight, Land},
	DashLeft:     {FloatLeft, FloatRight, Drop, DropLeft, DropRight, Land},
	DashRight:    {FloatLeft, FloatRight, Drop, DropLeft, DropRight, Land},
	Drop:         {Drop, DropLeft, DropRight, FloatLeft, FloatRight, DashLeft, DashRight, Land},
	DropLeft:     {Drop, DropLeft, DropRight, FloatLeft, FloatRight, DashLeft, DashRight, Land},
	DropRight:    {Drop, DropLeft, DropRight, FloatLeft, FloatRight, DashLeft, DashRight, Land},
	Arrive:       nil,
}

// FollowUps returns the actions allowed after a. The slice must not be
// modified.
func FollowUps(a Action) []Action {
	return followUps[a]
}

// Chain counts the steps of the uninterrupted airborne run ending at a node.
type Chain struct {
	Drops  int
	Jumps  int
	Floats int
	Dashes int
}

// Next returns the counters after taking a. A drop chain survives floats and
// dashes, as does a jump chain; floats are counted per cell of height.
func (c Chain) Next(a Action) Chain {
	var n Chain
	switch {
	case a.IsDrop():
		n.Drops = c.Drops + 1
		n.Dashes = c.Dashes
	case a.IsJump():
		n.Jumps = c.Jumps + 1
		n.Dashes = c.Dashes
	case a.IsFloat():
		n = c
		n.Floats = c.Floats + 1
	case a.IsDash():
		n = c
		n.Dashes = c.Dashes + 1
	}
	return n
}
