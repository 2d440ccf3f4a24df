package core

// Entity is a unique identifier for a placed object
// IDs are allocated monotonically, so ordering two IDs orders them by placement
type Entity uint64

// NoEntity marks an absent source or target
const NoEntity Entity = 0
