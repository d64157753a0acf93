package main

import (
	"crypto/sha256"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sfuzz-go/mutation/internal/abi"
	"github.com/sfuzz-go/mutation/internal/corpus"
	"github.com/sfuzz-go/mutation/internal/dictionary"
	"github.com/sfuzz-go/mutation/internal/memguard"
	"github.com/sfuzz-go/mutation/internal/minimize"
	"github.com/sfuzz-go/mutation/internal/mutation"
	"github.com/sfuzz-go/mutation/internal/oracle"
)

func main() {
	var (
		dur         time.Duration
		seed        int64
		corpusDir   string
		corpusOut   string
		seedFile    string
		dictPath    string
		addrDict    string
		shadowMode  bool
		targetKind  string
		remoteURL   string
		allocLimit  uint64
		printStats  bool
		havocRounds int
		minimizeIn  string
		minimizeOut string
		minBudget   time.Duration
	)

	flag.DurationVar(&dur, "duration", 5*time.Second, "mutation-loop duration")
	flag.Int64Var(&seed, "seed", 0, "random seed (0=time)")
	flag.StringVar(&corpusDir, "corpus-dir", "", "directory of seed files, hot-reloaded while running")
	flag.StringVar(&corpusOut, "corpus-out", "", "directory to save candidates that found new coverage")
	flag.StringVar(&seedFile, "seed-file", "", "single seed file to mutate (overrides --corpus-dir's first pick)")
	flag.StringVar(&dictPath, "dict", "", "code dictionary file")
	flag.StringVar(&addrDict, "addr-dict", "", "address dictionary file")
	flag.BoolVar(&shadowMode, "shadow", false, "enable branch-mask-guided (shadow) mutation")
	flag.StringVar(&targetKind, "target", "noop", "oracle selector (noop|remote)")
	flag.StringVar(&remoteURL, "remote", "", "remote oracle URL (https://host:port/execute), required when --target=remote")
	flag.Uint64Var(&allocLimit, "alloc-limit", 0, "allocation guard in bytes (0=default 1GiB, or the OS memory limit if lower)")
	flag.BoolVar(&printStats, "stats", false, "print stage-cycle statistics at end")
	flag.IntVar(&havocRounds, "havoc-rounds", mutation.HavocMin, "havoc rounds per mutation pass")
	flag.StringVar(&minimizeIn, "minimize", "", "minimize an interesting input from file to --out (skips the mutation loop)")
	flag.StringVar(&minimizeOut, "out", "", "output path for --minimize")
	flag.DurationVar(&minBudget, "min-budget", 2*time.Second, "time budget for --minimize")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := mutation.NewSeededRNG(seed)

	if minimizeIn != "" {
		runMinimize(minimizeIn, minimizeOut, seed, minBudget, targetKind, remoteURL)
		return
	}

	dicts, err := loadDicts(dictPath, addrDict)
	if err != nil {
		log.Fatalf("loading dictionaries: %v", err)
	}

	pool := corpus.New()

	if corpusDir != "" {
		if err := seedCorpusFromDir(pool, corpusDir); err != nil {
			log.Fatalf("seeding corpus: %v", err)
		}

		watcher, err := corpus.Watch(corpusDir, pool)
		if err != nil {
			log.Fatalf("watching corpus dir: %v", err)
		}
		defer watcher.Close()
	}

	var seedItem mutation.FuzzItem

	switch {
	case seedFile != "":
		data, err := os.ReadFile(seedFile)
		if err != nil {
			log.Fatalf("reading seed file: %v", err)
		}

		seedItem = mutation.NewFuzzItem(data)
	case pool.Len() > 0:
		seedItem = mutation.NewFuzzItem(pool.PickDistinct(mutation.Result{Cksum: ^uint64(0)}, rng))
	default:
		log.Fatal("no seed: pass --seed-file or a non-empty --corpus-dir")
	}

	target, closeTarget, err := selectOracle(targetKind, remoteURL)
	if err != nil {
		log.Fatalf("selecting oracle: %v", err)
	}
	defer closeTarget()

	if allocLimit == 0 {
		if l := memguard.AvailableRSSLimit(); l > 0 && l < memguard.DefaultLimit {
			allocLimit = l
		}
	}

	if err := memguard.CheckAlloc(uint64(len(seedItem.Data)), allocLimit); err != nil {
		log.Fatalf("seed rejected: %v", err)
	}

	m := mutation.New(seedItem, dicts, shadowMode, rng)
	descriptors := &abi.Static{}

	stopAt := time.Now().Add(dur)
	runCount := 0

	safeCall := func(data []byte) (item mutation.FuzzItem) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("target panicked on candidate of length %d: %v", len(data), r)
				item = mutation.FuzzItem{Data: data, HitRank: mutation.HitNone}
			}
		}()

		item = target(data)
		runCount++

		if corpusOut != "" && item.HitRank == mutation.HitNew {
			saveInteresting(corpusOut, item.Data)
		}

		return item
	}

	for time.Now().Before(stopAt) {
		m.SingleWalkingBit(safeCall)
		m.TwoWalkingBit(safeCall)
		m.FourWalkingBit(safeCall)
		m.SingleWalkingByte(safeCall)
		m.TwoWalkingByte(safeCall)
		m.FourWalkingByte(safeCall)
		m.SingleArith(safeCall)
		m.TwoArith(safeCall)
		m.FourArith(safeCall)
		m.SingleInterest(safeCall)
		m.TwoInterest(safeCall)
		m.FourInterest(safeCall)
		m.OverwriteWithDictionary(safeCall)
		m.OverwriteWithAddressDictionary(safeCall)
		m.Havoc(safeCall, havocRounds)

		if m.Splice(func() []byte { return pool.PickDistinct(seedItem.Res, rng) }) {
			safeCall(m.Data())
			m.Havoc(safeCall, havocRounds)
		}

		m.Prolongate(safeCall, descriptors, func() []byte { return pool.PickDistinct(seedItem.Res, rng) })

		m.Random(safeCall)
	}

	log.Printf("ran %d candidates against target %q in %s", runCount, targetKind, dur)

	if printStats {
		printStageStats(m)
	}
}

func loadDicts(codePath, addrPath string) (mutation.Dicts, error) {
	var dicts mutation.Dicts

	if codePath != "" {
		f, err := os.Open(codePath)
		if err != nil {
			return dicts, err
		}
		defer f.Close()

		d, err := dictionary.Load(codePath, f)
		if err != nil {
			return dicts, err
		}

		dicts.Code = d
	}

	if addrPath != "" {
		f, err := os.Open(addrPath)
		if err != nil {
			return dicts, err
		}
		defer f.Close()

		d, err := dictionary.LoadAddresses(addrPath, f)
		if err != nil {
			return dicts, err
		}

		dicts.Address = d
	}

	return dicts, nil
}

// runMinimize loads in, reduces it while it still reports HitNew
// against target, and writes the result to out (or stdout).
func runMinimize(in, out string, seed int64, budget time.Duration, targetKind, remoteURL string) {
	data, err := os.ReadFile(in)
	if err != nil {
		log.Fatalf("reading --minimize input: %v", err)
	}

	target, closeTarget, err := selectOracle(targetKind, remoteURL)
	if err != nil {
		log.Fatalf("selecting oracle: %v", err)
	}
	defer closeTarget()

	pred := minimize.FromOracle(target, mutation.HitNew)
	reduced := minimize.Run(seed, data, pred, budget)

	if out == "" {
		os.Stdout.Write(reduced)
		return
	}

	if err := os.WriteFile(out, reduced, 0o644); err != nil {
		log.Fatalf("writing --out: %v", err)
	}

	log.Printf("minimized %d bytes to %d bytes", len(data), len(reduced))
}

func seedCorpusFromDir(pool *corpus.Corpus, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Printf("skipping %s: %v", e.Name(), err)
			continue
		}

		pool.Add(mutation.NewFuzzItem(data))
	}

	return pool.RequireNonEmpty(dir)
}

// selectOracle returns the chosen oracle and a cleanup func, never nil.
func selectOracle(kind, remoteURL string) (mutation.Oracle, func(), error) {
	noop := func() {}

	switch strings.ToLower(kind) {
	case "noop", "":
		return func(data []byte) mutation.FuzzItem {
			return mutation.FuzzItem{Data: data, HitRank: mutation.HitNone}
		}, noop, nil

	case "remote":
		if remoteURL == "" {
			return nil, noop, fmt.Errorf("--target=remote requires --remote")
		}

		client := oracle.NewRemote(remoteURL, nil, 30*time.Second)

		return client.Oracle(), func() { client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown target %q", kind)
	}
}

func saveInteresting(dir string, data []byte) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("corpus-out: %v", err)
		return
	}

	sum := sha256.Sum256(data)
	name := fmt.Sprintf("%x", sum[:8])

	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		log.Printf("corpus-out: %v", err)
	}
}

func printStageStats(m *mutation.Mutation) {
	for id := mutation.StageFlip1; id <= mutation.StageRandom; id++ {
		if n := m.StageCycles(id); n > 0 {
			fmt.Printf("%-16s %d\n", mutation.StageLabel(id), n)
		}
	}
}
