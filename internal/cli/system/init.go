package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/steadiness/internal/cli"
	"github.com/julianstephens/steadiness/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete every existing document before initialization."`
	Seed   bool   `help:"Add a couple of sample habits when there are none."`
	Source string `help:"Source storage path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Source != "" && samePath(c.Source, ctx.Provider.GetConfigPath()) {
		return fmt.Errorf("source and destination are the same: %s", c.Source)
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized steadiness storage at: %s\n", ctx.Provider.GetConfigPath())

	if c.Force {
		n, err := clear(ctx.Provider)
		if err != nil {
			return fmt.Errorf("failed to reset storage: %w", err)
		}
		fmt.Printf("Deleted %d existing documents\n", n)
	}

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := migrateData(ctx.Provider, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	if c.Seed {
		if err := ctx.Load(); err != nil {
			return err
		}
		added, err := ctx.Store.Seed()
		if err != nil {
			return fmt.Errorf("failed to seed habits: %w", err)
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		if added > 0 {
			fmt.Printf("Added %d sample habits\n", added)
		} else {
			fmt.Println("Habits already exist, skipped sample habits")
		}
	}

	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func clear(p storage.Provider) (int, error) {
	keys, err := p.Keys()
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := p.Delete(key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// migrateData copies every document from the source provider. Documents are
// opaque blobs, so any backend can feed any other.
func migrateData(dst storage.Provider, sourcePath string) error {
	src, err := cli.OpenProvider(sourcePath)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source storage: %w", err)
	}
	defer src.Close()

	keys, err := src.Keys()
	if err != nil {
		return fmt.Errorf("failed to list source documents: %w", err)
	}
	for _, key := range keys {
		body, err := src.Get(key)
		if err != nil {
			return fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := dst.Put(key, body); err != nil {
			return fmt.Errorf("failed to write %s: %w", key, err)
		}
		fmt.Printf("  Migrated %s\n", key)
	}
	fmt.Printf("    Migrated %d documents\n", len(keys))
	return nil
}
