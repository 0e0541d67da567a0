package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"github.com/phuslu/log"
	"github.com/ppiankov/saaquiz/internal/cache"
	"github.com/ppiankov/saaquiz/internal/model"
)

// questionLists holds every question list loaded by this process, keyed by
// source and ordering
var questionLists = cache.NewMemoryCache[[]model.GeneratedQuestion](cache.NoExpiration, 0)

// loadLocks serializes first loads per cache key, across loaders
var loadLocks sync.Map

func loadLock(key string) *sync.Mutex {
	mu, _ := loadLocks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// LoaderConfig configures a Loader
type LoaderConfig struct {
	// Source is an http(s) URL or a local file path
	Source string

	// Shuffle reorders the list once, when it is first loaded
	Shuffle bool

	// Seed makes the shuffle reproducible when non-zero
	Seed uint64

	// Cache overrides the process-wide question list cache
	Cache cache.Cache[[]model.GeneratedQuestion]
}

// Loader loads the question list once and serves it from memory afterwards
type Loader struct {
	source  string
	shuffle bool
	seed    uint64
	fetcher *Fetcher
	cache   cache.Cache[[]model.GeneratedQuestion]
}

// NewLoader creates a loader for cfg.Source; fetcher is used for http(s) sources
func NewLoader(cfg LoaderConfig, fetcher *Fetcher) *Loader {
	c := cfg.Cache
	if c == nil {
		c = questionLists
	}

	return &Loader{
		source:  cfg.Source,
		shuffle: cfg.Shuffle,
		seed:    cfg.Seed,
		fetcher: fetcher,
		cache:   c,
	}
}

// Source returns the configured source locator
func (l *Loader) Source() string {
	return l.source
}

// Load returns the question list, reading it from the source on first use.
// Loaders with the same source and ordering share one list.
// A failed load is not remembered; the next call tries again.
func (l *Loader) Load(ctx context.Context) ([]model.GeneratedQuestion, error) {
	key := l.cacheKey()
	if list, found := l.cache.Get(key); found {
		return list, nil
	}

	mu := loadLock(key)
	mu.Lock()
	defer mu.Unlock()

	// Another caller may have finished loading while we waited
	if list, found := l.cache.Get(key); found {
		return list, nil
	}

	data, err := l.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions from %s: %w", l.source, err)
	}

	list, err := DecodeQuestionList(data)
	if err != nil {
		return nil, fmt.Errorf("load questions from %s: %w", l.source, err)
	}

	if l.shuffle {
		l.shuffleList(list)
	}

	if err := l.cache.Set(key, list, cache.NoExpiration); err != nil {
		return nil, fmt.Errorf("cache questions: %w", err)
	}

	log.Info().Str("source", l.source).Int("questions", len(list)).Bool("shuffled", l.shuffle).Msg("question list loaded")
	return list, nil
}

// cacheKey identifies the list by source and ordering. An unseeded shuffle is
// one process-wide order, decided by the first load.
func (l *Loader) cacheKey() string {
	order := "file"
	if l.shuffle {
		order = fmt.Sprintf("shuffle:%d", l.seed)
	}
	return cache.Key(l.source + "#" + order)
}

// Entry is one question together with its position in the list
type Entry struct {
	Index    int
	Total    int
	Question model.GeneratedQuestion
}

// Question returns entry n of the list, with n clamped to the list bounds
func (l *Loader) Question(ctx context.Context, n int) (Entry, error) {
	list, err := l.Load(ctx)
	if err != nil {
		return Entry{}, err
	}
	n = Clamp(n, len(list))
	return Entry{Index: n, Total: len(list), Question: list[n]}, nil
}

// Clamp limits n to [0, size-1]
func Clamp(n, size int) int {
	if n >= size {
		n = size - 1
	}
	if n < 0 {
		n = 0
	}
	return n
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if isRemote(l.source) {
		if l.fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for remote source")
		}
		return l.fetcher.Fetch(ctx, l.source)
	}

	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (l *Loader) shuffleList(list []model.GeneratedQuestion) {
	swap := func(i, j int) { list[i], list[j] = list[j], list[i] }
	if l.seed != 0 {
		rand.New(rand.NewPCG(l.seed, l.seed)).Shuffle(len(list), swap)
		return
	}
	rand.Shuffle(len(list), swap)
}

// DecodeQuestionList parses and validates a {"question_list": [...]} document
func DecodeQuestionList(data []byte) ([]model.GeneratedQuestion, error) {
	var set model.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode question list: %w", err)
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("question list is empty")
	}
	if err := model.Validate(&set); err != nil {
		return nil, fmt.Errorf("invalid question list: %w", err)
	}
	return set.Questions, nil
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
