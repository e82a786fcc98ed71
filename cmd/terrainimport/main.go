package main

import (
	"flag"
	"fmt"
	"log"

	"lintang/gridrouter/pkg/kv"
	"lintang/gridrouter/pkg/terrain"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

var (
	dbDir    = flag.String("db", "gridrouterDB", "pebble directory")
	diagonal = flag.Bool("diagonal", false, "aktifkan gerakan diagonal untuk file ascii")
)

// terrainimport simpan file terrain (yaml / ascii) ke pebble, supaya server tidak perlu
// parse ulang saat start.
//
//	terrainimport -db gridrouterDB solo.yaml jogja.txt
func main() {
	flag.Parse()
	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("no terrain files given")
	}

	db, err := pebble.Open(*dbDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}
	kvDB := kv.NewKVDB(db, 1)
	defer kvDB.Close()

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][1/1][reset] Menyimpan terrain..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for _, path := range files {
		name, g, err := terrain.LoadFile(path, terrain.WithDiagonal(*diagonal))
		if err != nil {
			log.Fatal(err)
		}
		if err := kvDB.SaveTerrain(name, g); err != nil {
			log.Fatal(err)
		}
		bar.Add(1)
	}

	names, err := kvDB.ListTerrains()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nterrain tersimpan: %v\n", names)
}
