package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funvibe/packsig/internal/config"
)

// seedSources are hand-picked inputs covering the grammar's corners:
// labels, boundaries, lockstep expansions, where clauses and the error
// paths.
var seedSources = []string{
	"signature Zip<T..., U...> where T.shape == U.shape { tuple (T...) ~ (U...) }",
	"signature Head<T, U...> { params (T, U...) ~ (Int, Bool, String) }",
	"signature Tail<T...> { tuple (T..., tail: Bool) ~ (Int, String, tail: Bool) }",
	"signature Lock<T..., U...> { params (Array<T>...) ~ (Array<U>...) }",
	"signature Fixed<T...> where T.shape == 3",
	"signature Conflict<T...> { tuple (T...) ~ (Int) tuple (T...) ~ (Int, Bool) }",
	"signature Broken<T",
	"signature Mixed<T, U...> where T == U.shape",
}

// LoadCorpus walks the given directories and adds every signature source
// file to the fuzz corpus.
func LoadCorpus(f *testing.F, dirs ...string) {
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && config.HasSourceExt(path) {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				f.Add(data)
			}
			return nil
		})
		if err != nil {
			// Missing corpus directories are not fatal.
			f.Logf("failed to load corpus from %s: %v", dir, err)
		}
	}
}

// AddSeeds adds the built-in seed sources to the corpus.
func AddSeeds(f *testing.F) {
	for _, src := range seedSources {
		f.Add([]byte(src))
	}
}
