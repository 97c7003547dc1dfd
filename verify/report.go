package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/nv2avsh/core"
	"github.com/sarchlab/nv2avsh/program"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	ProgramName    string
	SlotCount      int
	FinalIndex     int
	LintIssues     []Issue
	StructIssues   []Issue
	RangeIssues    []Issue
	HazardIssues   []Issue
	TranslateErr   error
	SourceLength   int
	SimulationErr  error
	SimulationOK   bool
	Outputs        Outputs
	ProgramVersion uint16
}

// GenerateReport runs lint, translation and functional simulation, and
// returns a report. setup, if not nil, loads inputs and constants into the
// simulator before it runs.
func GenerateReport(
	p *program.Program,
	t *core.Translator,
	setup func(fs *FunctionalSimulator) error,
) *VerificationReport {
	report := &VerificationReport{
		ProgramName:    p.Name,
		ProgramVersion: p.Version,
		SlotCount:      len(p.Slots),
		FinalIndex:     p.FinalIndex(),
	}

	// Run lint
	report.LintIssues = RunLint(p)

	// Categorize issues
	for _, issue := range report.LintIssues {
		switch issue.Type {
		case IssueStruct:
			report.StructIssues = append(report.StructIssues, issue)
		case IssueRange:
			report.RangeIssues = append(report.RangeIssues, issue)
		default:
			report.HazardIssues = append(report.HazardIssues, issue)
		}
	}

	// Run translation
	src, err := p.Translate(t)
	report.TranslateErr = err
	report.SourceLength = len(src)

	// Run functional simulation
	fs := NewFunctionalSimulator(p)
	if setup != nil {
		if err := setup(fs); err != nil {
			report.SimulationErr = fmt.Errorf("setup: %w", err)
			return report
		}
	}
	report.SimulationErr = fs.Run()
	report.SimulationOK = report.SimulationErr == nil
	if report.SimulationOK {
		report.Outputs = fs.Outputs()
	}

	return report
}

// Passed reports whether the program translated and simulated without
// structural or range issues. Hazards do not fail a program.
func (r *VerificationReport) Passed() bool {
	return r.TranslateErr == nil && r.SimulationOK &&
		len(r.StructIssues) == 0 && len(r.RangeIssues) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERTEX PROGRAM VERIFICATION REPORT: %s\n", r.ProgramName)
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nVersion 0x%04X, %d slots", r.ProgramVersion, r.SlotCount)
	if r.FinalIndex >= 0 {
		fmt.Fprintf(w, ", final at slot %d\n", r.FinalIndex)
	} else {
		fmt.Fprintln(w, ", no final slot")
	}

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		fmt.Fprintf(w, "Found %d lint issues:\n", len(r.LintIssues))
		fmt.Fprintln(w, issueTable(r.LintIssues))
	}

	// STAGE 2: TRANSLATION
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: TRANSLATION")
	fmt.Fprintln(w, separator)

	if r.TranslateErr == nil {
		fmt.Fprintf(w, "Generated %d bytes of GLSL\n", r.SourceLength)
	} else {
		fmt.Fprintf(w, "Translation error: %v\n", r.TranslateErr)
	}

	// STAGE 3: FUNCTIONAL SIMULATION
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 3: FUNCTIONAL SIMULATION")
	fmt.Fprintln(w, separator)

	if r.SimulationOK {
		fmt.Fprintln(w, "Simulation completed successfully")
		fmt.Fprintln(w, outputTable(r.Outputs))
	} else {
		fmt.Fprintf(w, "Simulation error: %v\n", r.SimulationErr)
	}

	// SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d RANGE, %d HAZARD)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.RangeIssues), len(r.HazardIssues))

	status := "PASSED"
	if !r.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(w, "Program Result: %s\n", status)
	fmt.Fprintln(w)
}

func issueTable(issues []Issue) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Type", "Slot", "Write", "Message"})

	for i, issue := range issues {
		t.AppendRow(table.Row{i + 1, issue.Type, issue.Slot, issue.WriteID, issue.Message})
	}

	return t.Render()
}

func outputTable(o Outputs) string {
	t := table.NewWriter()
	t.SetTitle("Outputs")
	t.AppendHeader(table.Row{"Output", "Value"})

	t.AppendRow(table.Row{"gl_Position", o.Position})
	t.AppendRow(table.Row{"gl_FrontColor", o.FrontColor})
	t.AppendRow(table.Row{"gl_FrontSecondaryColor", o.FrontSecondaryColor})
	t.AppendRow(table.Row{"gl_BackColor", o.BackColor})
	t.AppendRow(table.Row{"gl_BackSecondaryColor", o.BackSecondaryColor})
	t.AppendRow(table.Row{"gl_PointSize", o.PointSize})
	t.AppendRow(table.Row{"gl_FogFragCoord", o.FogFragCoord})
	for i, tc := range o.TexCoord {
		t.AppendRow(table.Row{fmt.Sprintf("gl_TexCoord[%d]", i), tc})
	}

	return t.Render()
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
