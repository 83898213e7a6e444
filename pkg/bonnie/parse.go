// Package bonnie turns bonnie++ direct-IO run logs into named trees and
// compares two sets of runs side by side.
package bonnie

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/speakeasy-api/namedtree"
	"golang.org/x/net/html"
)

// IO patterns in the order bonnie++ reports them.
var Patterns = []string{"putc", "write", "rewrite", "getc", "read"}

// Measures recorded for every pattern.
const (
	MeasureKBs = "kB/s"
	MeasureCPU = "%CPU"
)

var (
	runStartRe = regexp.MustCompile(`^Needing\s*(\d*)\s*MB`)
	rowRe      = regexp.MustCompile(`^<TR><TD>`)
	sizeRe     = regexp.MustCompile(`(\d+)\s*\*\s*(\d+)`)
)

type parseState int

const (
	stateIdle parseState = iota // before the first run header
	stateRun                    // inside a run, result rows expected
)

// Parser reads one bonnie++ log. The resulting tree is
// pattern -> file size -> io count -> {kB/s, %CPU}.
type Parser struct {
	log   namedtree.Logger
	state parseState
	tree  namedtree.Tree
	line  int
	runs  int
}

// NewParser returns a parser reporting soft problems to log.
func NewParser(log namedtree.Logger) *Parser {
	if log == nil {
		log = namedtree.NopLogger()
	}
	return &Parser{log: log}
}

// Parse consumes r and returns the tree of every result row found.
func (p *Parser) Parse(r io.Reader) (namedtree.Tree, error) {
	p.state = stateIdle
	p.line = 0
	p.runs = 0
	p.tree = namedtree.Tree{}
	for _, ptn := range Patterns {
		p.tree[ptn] = namedtree.Tree{}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		p.line++
		line := sc.Text()
		switch {
		case runStartRe.MatchString(line):
			p.state = stateRun
			p.runs++
			p.log.Debugf("run %d starts at line %d", p.runs, p.line)
		case p.state == stateRun && rowRe.MatchString(line):
			if err := p.row(line); err != nil {
				return nil, fmt.Errorf("line %d: %w", p.line, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if p.runs == 0 {
		p.log.Warnf("no bonnie++ run found")
	}
	return p.tree, nil
}

func (p *Parser) row(line string) error {
	cells := tableCells(line)
	want := 2 + 2*len(Patterns)
	if len(cells) < want {
		return fmt.Errorf("result row has %d cells, want %d", len(cells), want)
	}

	m := sizeRe.FindStringSubmatch(cells[1])
	if m == nil {
		return fmt.Errorf("cannot read file size and io count from %q", cells[1])
	}
	fsize, iocount := m[1], m[2]

	for i, ptn := range Patterns {
		result := namedtree.Tree{}
		kbCell, cpuCell := cells[2+2*i], cells[3+2*i]
		if kb, err := strconv.Atoi(kbCell); err == nil {
			result[MeasureKBs] = kb
		} else {
			p.log.Warnf("line %d: %s %s is not a number: %q", p.line, ptn, MeasureKBs, kbCell)
		}
		if cpu, err := strconv.ParseFloat(cpuCell, 64); err == nil {
			result[MeasureCPU] = cpu
		} else {
			p.log.Warnf("line %d: %s %s is not a number: %q", p.line, ptn, MeasureCPU, cpuCell)
		}

		ptnTree := p.tree[ptn].(namedtree.Tree)
		sizeTree, ok := ptnTree[fsize].(namedtree.Tree)
		if !ok {
			sizeTree = namedtree.Tree{}
			ptnTree[fsize] = sizeTree
		}
		if _, dup := sizeTree[iocount]; dup {
			p.log.Warnf("line %d: duplicate bonnie data for %s", p.line, namedtree.FormatPath([]string{ptn, fsize, iocount}))
			continue
		}
		sizeTree[iocount] = result
	}
	return nil
}

// tableCells returns the text of every <TD> cell in an HTML table row.
func tableCells(line string) []string {
	var cells []string
	var cur strings.Builder
	inCell := false

	z := html.NewTokenizer(strings.NewReader(line))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return cells
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "td" {
				inCell = true
				cur.Reset()
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "td" && inCell {
				cells = append(cells, strings.TrimSpace(cur.String()))
				inCell = false
			}
		case html.TextToken:
			if inCell {
				cur.Write(z.Text())
			}
		}
	}
}

// Parse reads a bonnie++ log from r into a tree named name.
func Parse(r io.Reader, name string, log namedtree.Logger) (*namedtree.NamedTree, error) {
	tree, err := NewParser(log).Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return namedtree.New(name, tree), nil
}

// ParseFile reads the bonnie++ log at path into a tree named name.
func ParseFile(path, name string, log namedtree.Logger) (*namedtree.NamedTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, name, log)
}
