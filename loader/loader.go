package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/topdown/engine/catalog"
	"github.com/nathoo/topdown/engine/state"
	lua "github.com/yuin/gopher-lua"
)

// CatalogDir is the subdirectory of a content directory holding the
// catalog tables. It is loaded separately, in the background.
const CatalogDir = "catalog"

// collector accumulates Lua definitions during file execution.
type collector struct {
	game     *lua.LTable
	maps     []rawMap
	presets  []rawPreset
	handlers []rawHandler
}

// Load reads all .lua files from dir, compiles them into game definitions,
// validates references, and returns the immutable Defs. The Lua VM is
// discarded after loading. Validation warnings are logged.
func Load(dir string, logger *slog.Logger) (*state.Defs, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	luaFiles, err := discover(dir)
	if err != nil {
		return nil, err
	}

	L := newVM()
	defer L.Close()

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}

	warnings, err := validate(defs)
	for _, w := range warnings {
		logger.Warn("content warning", "dir", dir, "warning", w)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("content loaded", "dir", dir, "maps", len(defs.Maps), "presets", len(defs.Presets), "handlers", len(defs.Handlers))
	return defs, nil
}

// Catalog returns a catalog.LoadFunc that reads the catalog tables from the
// catalog subdirectory of dir. Each call runs a fresh VM.
func Catalog(dir string) catalog.LoadFunc {
	return func(ctx context.Context) (catalog.Tables, error) {
		return LoadCatalog(ctx, filepath.Join(dir, CatalogDir))
	}
}

// LoadCatalog reads every .lua file in dir as catalog tables. The context
// is checked between files.
func LoadCatalog(ctx context.Context, dir string) (catalog.Tables, error) {
	luaFiles, err := discover(dir)
	if err != nil {
		return catalog.Tables{}, err
	}

	L := newVM()
	defer L.Close()

	tc := &tableCollector{}
	registerCatalogAPI(L, tc)

	for _, f := range luaFiles {
		if err := ctx.Err(); err != nil {
			return catalog.Tables{}, err
		}
		if err := L.DoFile(filepath.Join(dir, f)); err != nil {
			return catalog.Tables{}, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	t, err := compileTables(tc)
	if err != nil {
		return catalog.Tables{}, fmt.Errorf("compiling catalog: %w", err)
	}
	return t, nil
}

// discover lists the .lua files of dir, game.lua first.
func discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	return sortedLuaFiles(luaFiles), nil
}

// newVM creates a sandboxed VM with only the safe libraries open.
func newVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	return L
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Content must load the same way every time.
	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
