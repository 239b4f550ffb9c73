package component

// TargetTag marks an entity agents can chase. Name is matched against
// PathTarget.Name.
type TargetTag struct {
	Name string
}

var TargetTagComponent = NewComponent[TargetTag]()

// PathTarget names the target an agent follows. An empty name follows the
// first target in the world.
type PathTarget struct {
	Name string
}

var PathTargetComponent = NewComponent[PathTarget]()

// Name is a human-readable entity label used in logs.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
