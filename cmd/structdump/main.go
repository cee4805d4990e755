// structdump parses a fixed-layout binary file (ELF64) and dumps the
// parsed headers. The input can be a local file, possibly compressed
// (.gz, .bz2, .zst, .br), or an http(s) URL.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/davecgh/go-spew/spew"
	"github.com/tidwall/pretty"
	"github.com/toon-format/toon-go"

	"github.com/kjk/binutil/elffile"
	"github.com/kjk/binutil/recfile"
)

var (
	flgFormat = flag.String("fmt", "json", "output format: json, toon or go")
	flgPhdrs  = flag.Bool("phdrs", false, "include program headers")
	flgShdrs  = flag.Bool("shdrs", false, "include section headers")
	flgOut    = flag.String("o", "", "write output to a file instead of stdout")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: structdump [options] <file-or-url>\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func readInput(loc string) ([]byte, error) {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		var buf bytes.Buffer
		err := requests.URL(loc).ToBytesBuffer(&buf).Fetch(ctx)
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return recfile.ReadFileMaybeCompressed(loc)
}

func format(v interface{}) ([]byte, error) {
	switch *flgFormat {
	case "json":
		d, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return pretty.Pretty(d), nil
	case "toon":
		return toon.Marshal(v)
	case "go":
		return []byte(spew.Sdump(v)), nil
	}
	return nil, fmt.Errorf("unknown format '%s'", *flgFormat)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
	}
	loc := flag.Arg(0)

	d, err := readInput(loc)
	if err != nil {
		fatalf("failed to read '%s': %s\n", loc, err)
	}
	f, err := elffile.Read(bytes.NewReader(d))
	if err != nil {
		fatalf("failed to parse '%s': %s\n", loc, err)
	}

	out := map[string]interface{}{
		"Header": f.Header,
	}
	if *flgPhdrs {
		out["ProgHeaders"] = f.Progs
	}
	if *flgShdrs {
		out["SectionHeaders"] = f.Sections
	}

	res, err := format(out)
	if err != nil {
		fatalf("%s\n", err)
	}
	if *flgOut != "" {
		err = os.WriteFile(*flgOut, res, 0644)
		if err != nil {
			fatalf("failed to write '%s': %s\n", *flgOut, err)
		}
		return
	}
	os.Stdout.Write(res)
}
