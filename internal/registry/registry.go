// Package registry 提供按名称绑定实现的注册表
//
// 每个 Registry 对应一个类别（读取器、写入器），名称在类别内唯一。
// 注册只允许在启动阶段（各包的 init）进行；第一次读取会封闭注册表，
// 之后的读取不加锁。
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrInvalidRegistration 名称为空或工厂为 nil
var ErrInvalidRegistration = errors.New("invalid registration")

// Descriptor 名称到实现的绑定
type Descriptor[F any] struct {
	Category string
	Name     string
	Factory  F

	// 仅用于诊断
	Module string
	File   string
	Line   int
}

// Source 返回注册位置 file:line
func (d Descriptor[F]) Source() string {
	if d.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", d.File, d.Line)
}

// DuplicateError 同一类别下重复注册
type DuplicateError struct {
	Category string
	Name     string
	Existing string // 已有注册的来源
	Incoming string // 新注册的来源
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already registered by %s (again by %s)",
		e.Category, e.Name, e.Existing, e.Incoming)
}

// SealedError 注册表封闭后仍尝试注册
type SealedError struct {
	Category string
	Name     string
	Source   string
}

func (e *SealedError) Error() string {
	return fmt.Sprintf("%s registry is sealed: cannot register %q from %s", e.Category, e.Name, e.Source)
}

// Registry 单一类别的注册表，保持插入顺序
type Registry[F any] struct {
	category string

	mu      sync.Mutex
	sealed  atomic.Bool
	entries []Descriptor[F]
	index   map[string]int
}

// New 创建指定类别的空注册表
func New[F any](category string) *Registry[F] {
	return &Registry[F]{
		category: category,
		index:    make(map[string]int),
	}
}

// Category 返回类别名
func (r *Registry[F]) Category() string {
	return r.category
}

// Register 注册 name -> f
func (r *Registry[F]) Register(name string, f F) error {
	return r.register(name, f, 2)
}

// MustRegister 与 Register 相同，失败时 panic。供 init 中的注册钩子使用。
func (r *Registry[F]) MustRegister(name string, f F) {
	if err := r.register(name, f, 2); err != nil {
		panic(err)
	}
}

// RegisterAt 与 Register 相同，但来源取自调用栈上 skip 层之外的调用者。
// 供包装函数使用，使记录的来源指向真正的注册钩子。
func (r *Registry[F]) RegisterAt(skip int, name string, f F) error {
	return r.register(name, f, skip+2)
}

func (r *Registry[F]) register(name string, f F, skip int) error {
	d := Descriptor[F]{
		Category: r.category,
		Name:     name,
		Factory:  f,
	}
	d.Module, d.File, d.Line = caller(skip)

	if name == "" {
		return fmt.Errorf("%w: empty %s name at %s", ErrInvalidRegistration, r.category, d.Source())
	}
	if isNil(f) {
		return fmt.Errorf("%w: nil factory for %s %q at %s", ErrInvalidRegistration, r.category, name, d.Source())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return &SealedError{Category: r.category, Name: name, Source: d.Source()}
	}
	if i, exists := r.index[name]; exists {
		return &DuplicateError{
			Category: r.category,
			Name:     name,
			Existing: r.entries[i].Source(),
			Incoming: d.Source(),
		}
	}

	r.index[name] = len(r.entries)
	r.entries = append(r.entries, d)
	return nil
}

// Seal 封闭注册表，之后的注册都会失败
func (r *Registry[F]) Seal() {
	if r.sealed.Load() {
		return
	}
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

// Sealed 报告注册表是否已封闭
func (r *Registry[F]) Sealed() bool {
	return r.sealed.Load()
}

// Lookup 查找 name 绑定的工厂
func (r *Registry[F]) Lookup(name string) (F, bool) {
	r.Seal()
	i, ok := r.index[name]
	if !ok {
		var zero F
		return zero, false
	}
	return r.entries[i].Factory, true
}

// Describe 查找 name 对应的完整描述
func (r *Registry[F]) Describe(name string) (Descriptor[F], bool) {
	r.Seal()
	i, ok := r.index[name]
	if !ok {
		return Descriptor[F]{}, false
	}
	return r.entries[i], true
}

// List 按注册顺序返回所有名称
func (r *Registry[F]) List() []string {
	r.Seal()
	names := make([]string, len(r.entries))
	for i, d := range r.entries {
		names[i] = d.Name
	}
	return names
}

// Descriptors 按注册顺序返回描述的副本
func (r *Registry[F]) Descriptors() []Descriptor[F] {
	r.Seal()
	out := make([]Descriptor[F], len(r.entries))
	copy(out, r.entries)
	return out
}

// Len 返回已注册数量
func (r *Registry[F]) Len() int {
	r.Seal()
	return len(r.entries)
}

// caller 返回调用者所在的包路径、文件（目录/文件名）和行号
func caller(skip int) (module, file string, line int) {
	pc, path, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", "", 0
	}
	file = filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path))
	if fn := runtime.FuncForPC(pc); fn != nil {
		module = packagePath(fn.Name())
	}
	return module, file, line
}

// packagePath 从 "github.com/a/b/pkg.init.0" 中取出 "github.com/a/b/pkg"
func packagePath(funcName string) string {
	slash := strings.LastIndex(funcName, "/")
	if slash < 0 {
		slash = 0
	}
	if dot := strings.Index(funcName[slash:], "."); dot >= 0 {
		return funcName[:slash+dot]
	}
	return funcName
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
