package kv

import (
	"errors"
	"fmt"
	"sync"

	"lintang/gridrouter/pkg/concurrent"
	"lintang/gridrouter/pkg/datastructure"
	"lintang/gridrouter/pkg/terrain"

	"github.com/cockroachdb/pebble"
	"golang.org/x/exp/slices"
)

var ErrNotFound = errors.New("key not found")

type KVDB struct {
	db      *pebble.DB
	workers int
	indexMu sync.Mutex
}

func NewKVDB(db *pebble.DB, workers int) *KVDB {
	return &KVDB{db: db, workers: workers}
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	val, closer, err := k.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	// val hanya valid sampai closer di close
	return slices.Clone(val), nil
}

// SaveTerrain simpan terrain snapshot dan tambahkan namanya ke index.
func (k *KVDB) SaveTerrain(name string, g *terrain.Grid) error {
	val, err := pack(NewTerrainRecord(name, g))
	if err != nil {
		return fmt.Errorf("encoding terrain %s: %w", name, err)
	}
	if err := k.db.Set(terrainKey(name), val, pebble.Sync); err != nil {
		return err
	}
	return k.addToIndex(name)
}

func (k *KVDB) LoadTerrain(name string) (*terrain.Grid, error) {
	val, err := k.get(terrainKey(name))
	if err != nil {
		return nil, fmt.Errorf("terrain %s: %w", name, err)
	}
	rec, err := unpack[TerrainRecord](val)
	if err != nil {
		return nil, fmt.Errorf("decoding terrain %s: %w", name, err)
	}
	return rec.ToGrid()
}

// ListTerrains nama semua terrain yang tersimpan, urut alfabet.
func (k *KVDB) ListTerrains() ([]string, error) {
	k.indexMu.Lock()
	defer k.indexMu.Unlock()
	return k.terrainIndex()
}

func (k *KVDB) terrainIndex() ([]string, error) {
	val, err := k.get(terrainIndexKey)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return unpack[[]string](val)
}

func (k *KVDB) addToIndex(name string) error {
	k.indexMu.Lock()
	defer k.indexMu.Unlock()

	names, err := k.terrainIndex()
	if err != nil {
		return err
	}
	if slices.Contains(names, name) {
		return nil
	}
	names = append(names, name)
	slices.Sort(names)
	val, err := pack(names)
	if err != nil {
		return err
	}
	return k.db.Set(terrainIndexKey, val, pebble.Sync)
}

func (k *KVDB) SaveRoute(rec RouteRecord) error {
	val, err := pack(rec)
	if err != nil {
		return err
	}
	return k.db.Set(routeKey(rec.Terrain, rec.Start, rec.End), val, pebble.Sync)
}

func (k *KVDB) GetRoute(terrainName string, start, end datastructure.GridCoordinate) (RouteRecord, error) {
	val, err := k.get(routeKey(terrainName, start, end))
	if err != nil {
		return RouteRecord{}, fmt.Errorf("route %s %s->%s: %w", terrainName, start, end, err)
	}
	return unpack[RouteRecord](val)
}

// SaveRoutes encode semua route lalu simpan paralel pakai worker pool.
func (k *KVDB) SaveRoutes(recs []RouteRecord) error {
	if len(recs) == 0 {
		return nil
	}
	workers := concurrent.NewWorkerPool[concurrent.SaveKVJobItem, error](k.workers, len(recs))
	for _, rec := range recs {
		val, err := pack(rec)
		if err != nil {
			return err
		}
		workers.AddJob(concurrent.SaveKVJobItem{Key: string(routeKey(rec.Terrain, rec.Start, rec.End)), Value: val})
	}
	workers.Close()

	workers.Start(k.SaveKV)
	workers.Wait()

	var errs []error
	for err := range workers.CollectResults() {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (k *KVDB) SaveKV(item concurrent.SaveKVJobItem) error {
	return k.db.Set([]byte(item.Key), item.Value, pebble.NoSync)
}

func (k *KVDB) Close() error {
	if err := k.db.Flush(); err != nil {
		return err
	}
	return k.db.Close()
}
