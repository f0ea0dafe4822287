package document

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/nerdneilsfield/docpipe/internal/logger"
	"github.com/nerdneilsfield/docpipe/internal/registry"
	"go.uber.org/zap"
)

// maxSuggestDistance 提示相近名称时允许的最大编辑距离
const maxSuggestDistance = 2

var (
	readers = sync.OnceValue(func() *registry.Registry[ReaderFactory] {
		return registry.New[ReaderFactory](CategoryReader)
	})
	writers = sync.OnceValue(func() *registry.Registry[WriterFactory] {
		return registry.New[WriterFactory](CategoryWriter)
	})
)

// Readers 返回进程级读取器注册表，首次调用时创建
func Readers() *registry.Registry[ReaderFactory] {
	return readers()
}

// Writers 返回进程级写入器注册表，首次调用时创建
func Writers() *registry.Registry[WriterFactory] {
	return writers()
}

// RegisterReader 注册读取器。只应在 init 中调用；重复名称或注册表已封闭时 panic。
func RegisterReader(name string, factory ReaderFactory) {
	if err := Readers().RegisterAt(1, name, factory); err != nil {
		panic(err)
	}
}

// RegisterWriter 注册写入器。只应在 init 中调用；重复名称或注册表已封闭时 panic。
func RegisterWriter(name string, factory WriterFactory) {
	if err := Writers().RegisterAt(1, name, factory); err != nil {
		panic(err)
	}
}

// ReaderNames 按注册顺序返回读取器名称
func ReaderNames() []string {
	return Readers().List()
}

// WriterNames 按注册顺序返回写入器名称
func WriterNames() []string {
	return Writers().List()
}

// NewReader 按名称创建读取器
func NewReader(name string, opts Options) (Reader, error) {
	return create(Readers(), name, opts)
}

// NewWriter 按名称创建写入器
func NewWriter(name string, opts Options) (Writer, error) {
	return create(Writers(), name, opts)
}

// create 查找并调用工厂
func create[T any, F ~func(Options) (T, error)](reg *registry.Registry[F], name string, opts Options) (T, error) {
	var zero T
	log := opts.GetLogger().Named("dispatch")

	factory, ok := reg.Lookup(name)
	if !ok {
		known := reg.List()
		err := &UnsupportedFormatError{
			Category:    reg.Category(),
			Name:        name,
			Known:       known,
			Suggestions: Suggest(name, known),
		}
		log.Debug("format not found",
			zap.String("category", reg.Category()),
			zap.String("name", name),
			zap.Strings("known", known))
		return zero, err
	}

	opts.Logger = opts.GetLogger().Named(reg.Category()).Named(name)
	inst, err := factory(opts)
	if err != nil {
		return zero, fmt.Errorf("create %s %q: %w", reg.Category(), name, err)
	}

	log.Debug("created", zap.String("category", reg.Category()), zap.String("name", name))
	return inst, nil
}

// Suggest 返回 known 中与 name 相近的名称
//
// 先按模糊子序列匹配排序，再补充编辑距离不超过 2（且小于 name 长度）的名称。
func Suggest(name string, known []string) []string {
	if name == "" || len(known) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]bool)

	ranks := fuzzy.RankFindFold(name, known)
	sort.Stable(ranks)
	for _, r := range ranks {
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}

	lower := strings.ToLower(name)
	for _, k := range known {
		if seen[k] {
			continue
		}
		d := fuzzy.LevenshteinDistance(lower, strings.ToLower(k))
		if d <= maxSuggestDistance && d < len(lower) {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// LogRegistrations 在 debug 级别输出所有已注册的读取器和写入器
func LogRegistrations(log *zap.Logger) {
	if !logger.Enabled(log, zap.DebugLevel) {
		return
	}
	log = log.Named("registry")
	log.Debug("registered readers", describe(Readers().Descriptors())...)
	log.Debug("registered writers", describe(Writers().Descriptors())...)
}

func describe[F any](ds []registry.Descriptor[F]) []zap.Field {
	names := make([]string, len(ds))
	sources := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Name
		sources[i] = d.Source()
	}
	return []zap.Field{zap.Strings("names", names), zap.Strings("sources", sources)}
}
