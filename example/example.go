package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spool-dev/spool"
)

var lines = int(1e5) // 100K

func main() {
	// buffer a payload without knowing up front whether it fits in memory
	b, err := spool.New(&spool.Config{MemoryThreshold: 64 << 10})
	if err != nil {
		log.Fatal(err)
	}
	defer b.Close()

	for i := 0; i < lines; i++ {
		if _, err := fmt.Fprintf(b, "record %d\n", i); err != nil {
			log.Fatal(err)
		}
	}

	// replay the accumulated bytes to the final destination
	out, err := os.Create("records.txt")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	if err := b.CopyTo(out, 0); err != nil {
		log.Fatal(err)
	}
}
