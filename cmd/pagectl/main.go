// Command pagectl is a small command-line tool for poking at a heap
// file directly: insert a record, read one back, delete one, or print
// page diagnostics. It has no subcommand framework, in the same style
// as the teacher's cmd/debug and cmd/catalog_demo: one flat flag set,
// one main, fmt.Println narration.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/SimonWaldherr/slotpage/internal/heapfile"
)

var (
	flagDBPath  = flag.String("db", "pages.db", "path to the heap file")
	flagCatalog = flag.String("catalog", "catalog.json", "path to the table catalog")
	flagTenant  = flag.String("tenant", "default", "tenant name")
	flagTable   = flag.String("table", "", "table name (required)")
	flagOp      = flag.String("op", "stat", "operation: insert, get, delete, stat, list")
	flagPayload = flag.String("payload", "", "payload bytes for insert, as a literal string")
	flagSlot    = flag.Uint("slot", 0, "slot id for get/delete")
	flagDump    = flag.Bool("dump", false, "print a hex dump of the page alongside -op stat")
)

func main() {
	flag.Parse()

	hf, err := heapfile.Open(heapfile.Config{Path: *flagDBPath})
	if err != nil {
		fmt.Println("open heap file:", err)
		os.Exit(1)
	}
	defer hf.Close()

	cat, err := heapfile.OpenCatalog(*flagCatalog)
	if err != nil {
		fmt.Println("open catalog:", err)
		os.Exit(1)
	}

	if *flagOp == "list" {
		for _, name := range cat.ListTables(*flagTenant) {
			fmt.Println(name)
		}
		return
	}

	if *flagTable == "" {
		fmt.Println("-table is required for op", *flagOp)
		os.Exit(1)
	}

	entry, err := cat.Lookup(*flagTenant, *flagTable)
	if errors.Is(err, heapfile.ErrNotFound) {
		if *flagOp != "insert" {
			fmt.Printf("table %s/%s not found\n", *flagTenant, *flagTable)
			os.Exit(1)
		}
		p, aerr := hf.Allocate()
		if aerr != nil {
			fmt.Println("allocate page:", aerr)
			os.Exit(1)
		}
		id, _ := p.PageID()
		if uerr := hf.Unpin(id, false); uerr != nil {
			fmt.Println("unpin:", uerr)
			os.Exit(1)
		}
		entry, err = cat.Register(*flagTenant, *flagTable, id)
		if err != nil {
			fmt.Println("register table:", err)
			os.Exit(1)
		}
		fmt.Printf("registered %s/%s -> table id %s, page %d\n", *flagTenant, *flagTable, entry.TableID, entry.FirstPageID)
	} else if err != nil {
		fmt.Println("lookup table:", err)
		os.Exit(1)
	}

	p, err := hf.Fetch(entry.FirstPageID)
	if err != nil {
		fmt.Println("fetch page:", err)
		os.Exit(1)
	}

	switch *flagOp {
	case "insert":
		slot, err := p.Insert([]byte(*flagPayload))
		if err != nil {
			fmt.Println("insert:", err)
			hf.Unpin(entry.FirstPageID, false)
			os.Exit(1)
		}
		hf.Unpin(entry.FirstPageID, true)
		fmt.Printf("inserted into slot %d\n", slot)

	case "get":
		payload, err := p.Get(uint16(*flagSlot))
		hf.Unpin(entry.FirstPageID, false)
		if err != nil {
			fmt.Println("get:", err)
			os.Exit(1)
		}
		fmt.Printf("slot %d: %q\n", *flagSlot, payload)

	case "delete":
		err := p.Delete(uint16(*flagSlot))
		hf.Unpin(entry.FirstPageID, err == nil)
		if err != nil {
			fmt.Println("delete:", err)
			os.Exit(1)
		}
		fmt.Printf("deleted slot %d\n", *flagSlot)

	case "stat":
		st, err := p.Stat()
		hf.Unpin(entry.FirstPageID, false)
		if err != nil {
			fmt.Println("stat:", err)
			os.Exit(1)
		}
		fmt.Printf("table %s/%s, page %d:\n", *flagTenant, *flagTable, entry.FirstPageID)
		fmt.Printf("  slots:            %d\n", st.NumSlots)
		fmt.Printf("  live records:     %d\n", st.LiveRecords)
		fmt.Printf("  free space:       %d bytes\n", st.FreeSpace)
		fmt.Printf("  contiguous tail:  %d bytes\n", st.ContiguousTail)
		if *flagDump {
			fmt.Println(p.Dump())
		}

	default:
		hf.Unpin(entry.FirstPageID, false)
		fmt.Println("unknown -op:", *flagOp)
		os.Exit(1)
	}
}
