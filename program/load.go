package program

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// word is a 32-bit program word written in any Go integer literal form,
// usually hex.
type word uint32

func (w *word) UnmarshalYAML(node *yaml.Node) error {
	v, err := strconv.ParseUint(node.Value, 0, 32)
	if err != nil {
		return fmt.Errorf("line %d: word %q: %w", node.Line, node.Value, err)
	}

	*w = word(v)

	return nil
}

type versionTag uint16

func (t *versionTag) UnmarshalYAML(node *yaml.Node) error {
	v, err := strconv.ParseUint(node.Value, 0, 16)
	if err != nil {
		return fmt.Errorf("line %d: version %q: %w", node.Line, node.Value, err)
	}

	*t = versionTag(v)

	return nil
}

type programFile struct {
	Name    string     `yaml:"name"`
	Version versionTag `yaml:"version"`
	Slots   [][]word   `yaml:"slots"`
}

// LoadProgramFileFromYAML reads a program of the form
//
//	name: passthrough
//	version: 0x2078
//	slots:
//	  - [0x00000000, 0x0020061B, 0x0836106C, 0x2070F800]
func LoadProgramFileFromYAML(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseYAML(data, defaultName(path))
}

// ParseYAML parses a YAML program. fallbackName is used when the document
// has no name.
func ParseYAML(data []byte, fallbackName string) (*Program, error) {
	var f programFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}

	name := f.Name
	if name == "" {
		name = fallbackName
	}

	words := make([]uint32, 0, len(f.Slots)*4)
	for i, s := range f.Slots {
		if len(s) != 4 {
			return nil, fmt.Errorf("program %s: slot %d has %d words, want 4",
				name, i, len(s))
		}
		for _, w := range s {
			words = append(words, uint32(w))
		}
	}

	return FromWords(name, uint16(f.Version), words)
}

// LoadProgramFileFromHex reads a plain text program: hex words separated by
// white space, four per slot, with # starting a comment.
func LoadProgramFileFromHex(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseHex(f, defaultName(path), 0)
}

// MaxHexLine is the longest line ParseHex accepts, in bytes.
const MaxHexLine = 16 << 20

// ParseHex parses a plain text program. Slots may span lines, and a whole
// program may sit on one line up to MaxHexLine bytes long.
func ParseHex(r io.Reader, name string, version uint16) (*Program, error) {
	var words []uint32

	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, MaxHexLine)
	line := 0
	for scanner.Scan() {
		line++

		text, _, _ := strings.Cut(scanner.Text(), "#")
		for _, tok := range strings.Fields(text) {
			tok = strings.TrimPrefix(strings.ToLower(tok), "0x")

			v, err := strconv.ParseUint(tok, 16, 32)
			if err != nil {
				return nil, fmt.Errorf("program %s line %d: %w", name, line, err)
			}

			words = append(words, uint32(v))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("program %s line %d: %w", name, line+1, err)
	}

	return FromWords(name, version, words)
}

// LoadProgramFile picks the loader by file extension.
func LoadProgramFile(path string) (*Program, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadProgramFileFromYAML(path)
	default:
		return LoadProgramFileFromHex(path)
	}
}

// EncodeYAML writes the program in the format LoadProgramFileFromYAML
// reads, with words in hex.
func (p *Program) EncodeYAML(w io.Writer) error {
	var buf bytes.Buffer

	name, err := yaml.Marshal(p.Name)
	if err != nil {
		return err
	}

	fmt.Fprintf(&buf, "name: %s", name)
	fmt.Fprintf(&buf, "version: 0x%04X\n", p.Version)
	buf.WriteString("slots:\n")
	for _, s := range p.Slots {
		fmt.Fprintf(&buf, "  - [0x%08X, 0x%08X, 0x%08X, 0x%08X]\n",
			s[0], s[1], s[2], s[3])
	}

	_, err = w.Write(buf.Bytes())

	return err
}

func defaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
