package game

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// Hook sources are Go programs in package main. A room hook may define
// OnEnter(map[string]any) and an item hook OnInspect(map[string]any). Hooks
// run synchronously inside the world transaction that triggered them, so the
// helpers in the payload must only be called before the hook returns.

type hookEntry struct {
	script *compiledHook
	err    error
}

type compiledHook struct {
	onEnter   func(map[string]any)
	onInspect func(map[string]any)
}

type hookEngine struct {
	mu      sync.RWMutex
	scripts map[string]*hookEntry
}

func newHookEngine() *hookEngine {
	return &hookEngine{scripts: make(map[string]*hookEntry)}
}

func (e *hookEngine) roomEntered(w *World, room *Room, c *Character) {
	if e == nil || strings.TrimSpace(room.hook) == "" {
		return
	}
	script, err := e.scriptFor(room.hook)
	if err != nil {
		w.log.Warn("room hook failed to load", zap.String("room", room.name), zap.Error(err))
		return
	}
	if script == nil || script.onEnter == nil {
		return
	}
	payload := map[string]any{
		"narrate": func(text string) {
			c.tell(strings.TrimSpace(text))
		},
		"broadcast": func(text string) {
			room.hear(strings.TrimSpace(text), nil)
		},
		"room":   room.name,
		"player": c.name,
	}
	e.invoke(w, "room:"+room.name, "OnEnter", func() {
		script.onEnter(payload)
	})
}

func (e *hookEngine) itemInspected(w *World, it *Item, c *Character) {
	if e == nil || strings.TrimSpace(it.hook) == "" {
		return
	}
	script, err := e.scriptFor(it.hook)
	if err != nil {
		w.log.Warn("item hook failed to load", zap.String("item", it.name), zap.Error(err))
		return
	}
	if script == nil || script.onInspect == nil {
		return
	}
	where := "room"
	if it.heldBy(c) {
		where = "inventory"
	}
	payload := map[string]any{
		"describe": func(text string) {
			c.tell(strings.TrimSpace(text))
		},
		"item":   it.name,
		"player": c.name,
		"where":  where,
	}
	e.invoke(w, "item:"+it.name, "OnInspect", func() {
		script.onInspect(payload)
	})
}

func (e *hookEngine) invoke(w *World, name, hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Warn("hook panic", zap.String("owner", name), zap.String("hook", hook), zap.Any("panic", r))
		}
	}()
	fn()
}

func (e *hookEngine) scriptFor(source string) (*compiledHook, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, nil
	}
	key := hashHook(trimmed)
	e.mu.RLock()
	entry, ok := e.scripts[key]
	e.mu.RUnlock()
	if ok {
		return entry.script, entry.err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.scripts[key]; ok {
		return entry.script, entry.err
	}
	script, err := compileHook(trimmed)
	e.scripts[key] = &hookEntry{script: script, err: err}
	return script, err
}

// CompileHook reports whether source compiles as a hook program.
func CompileHook(source string) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	_, err := compileHook(source)
	return err
}

func compileHook(source string) (*compiledHook, error) {
	interpreter := interp.New(interp.Options{})
	if err := interpreter.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib: %w", err)
	}
	if _, err := interpreter.Eval(source); err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	compiled := &compiledHook{}
	slots := []struct {
		name string
		fn   *func(map[string]any)
	}{
		{"OnEnter", &compiled.onEnter},
		{"OnInspect", &compiled.onInspect},
	}
	for _, slot := range slots {
		value, err := interpreter.Eval(slot.name)
		if err != nil {
			if isUndefinedSymbol(err) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", slot.name, err)
		}
		fn, ok := value.Interface().(func(map[string]any))
		if !ok {
			return nil, fmt.Errorf("%s has unexpected type %T", slot.name, value.Interface())
		}
		*slot.fn = fn
	}
	return compiled, nil
}

func hashHook(src string) string {
	sum := blake2b.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

func isUndefinedSymbol(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "undefined") || strings.Contains(msg, "not declared")
}
