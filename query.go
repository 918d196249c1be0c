package vault

import (
	"fmt"
)

// Query modes, selected by the suffix of the query path after "?".
const (
	// KeyQueryMod returns the model stored under exactly the given key.
	KeyQueryMod = ""
	// PrefixQueryMod returns all models whose key starts with the given
	// data.
	PrefixQueryMod = "prefix"
)

// QueryHandler reads models from the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of an extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter maps query paths to handlers, much like http.ServeMux maps
// URLs. The zero value is not usable, see NewQueryRouter.
type QueryRouter struct {
	routes map[string]QueryHandler
}

func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with the router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register panics if the path is already taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, taken := r.routes[path]; taken {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r.routes[path] = h
}

// Handler returns nil for unknown paths.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}
