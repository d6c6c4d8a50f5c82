package main

import (
	"sync"

	"github.com/nickyhof/MyDB"
	"github.com/nickyhof/MyDB/core"
	"github.com/nickyhof/MyDB/db"
	"github.com/nickyhof/MyDB/protocol"
)

// Handle represents an open database instance
type Handle struct {
	instance *MyDB.Instance
	engine   *db.Engine
}

var bindingIdentity = core.Identity{
	Name:  "MyDB Bindings",
	Email: "bindings@mydb.local",
}

// registry hands out integer handles to foreign callers. Handles are never
// reused.
type registry struct {
	mu      sync.Mutex
	handles map[int]*Handle
	next    int
}

func newRegistry() *registry {
	return &registry{handles: make(map[int]*Handle), next: 1}
}

var handles = newRegistry()

func (r *registry) open() int {
	instance := MyDB.Open()
	h := &Handle{
		instance: instance,
		engine:   instance.Engine(bindingIdentity),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.handles[id] = h
	return id
}

func (r *registry) get(id int) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

func (r *registry) close(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// execute runs query on the handle's engine and returns the encoded response.
func (r *registry) execute(id int, query string) []byte {
	h, ok := r.get(id)
	if !ok {
		return encode(protocol.Error("invalid handle"))
	}
	return encode(protocol.FromResult(h.engine.Execute(query)))
}

// compile compiles script without touching any catalog.
func compile(script string) []byte {
	return encode(protocol.FromCompiled(db.Compile(db.Script{Name: "input", Text: script})))
}

func encode(resp protocol.Response) []byte {
	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		data, _ = protocol.EncodeResponse(protocol.Error(err.Error()))
	}
	return data
}
