package ecs

import "fmt"

// Entity packs a 32-bit id with the generation it was created in, so handles
// to destroyed entities never alias a reused id.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// String renders the handle as id/generation for logs.
func (e Entity) String() string {
	return fmt.Sprintf("%d/%d", e.id(), e.generation())
}

func (e Entity) Valid() bool {
	return e.id() != 0
}
