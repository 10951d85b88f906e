package main

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"github.com/pangkywara/tesseractgui/src/pkg/config"
	"github.com/pangkywara/tesseractgui/src/pkg/ocr"
)

// previewLength caps the recognized-text preview in the listing.
const previewLength = 80

/*
historyEntry pairs a stored run report with the run directory it was
loaded from, so delete operations can point back at the directory.
*/
type historyEntry struct {
	RunDirPath string
	Report     ocr.RunReport
}

/*
main is the entrypoint of the run-history CLI.

By default it lists stored recognition runs, newest first, with a short
preview of the recognized text. -delete removes one run directory, -clear
removes every run under the output root.
*/
func main() {
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	outputDirPath := flag.String("out", "", "Run artifact root to scan. Default comes from config.")
	limit := flag.Int("limit", 20, "Maximum number of runs to list. 0 lists all.")
	deleteRunDirPath := flag.String("delete", "", "Run directory to delete, as printed by the listing.")
	clearAll := flag.Bool("clear", false, "Delete every stored run under the output root.")

	flag.Parse()
	config.InitializeConfig(*configPath)

	rootOutputDirPath := *outputDirPath
	if rootOutputDirPath == "" {
		rootOutputDirPath = config.Cfg.Ocr.OutputDir
	}

	if *deleteRunDirPath != "" {
		deleteRun(rootOutputDirPath, *deleteRunDirPath)
		return
	}
	if *clearAll {
		clearRuns(rootOutputDirPath)
		return
	}

	listRuns(rootOutputDirPath, *limit)
}

func listRuns(rootOutputDirPath string, limit int) {
	entries, e := collectHistoryEntries(rootOutputDirPath)
	e.QuitIf(xerr.ErrorTypeError)

	sort.Slice(entries, func(firstIndex int, secondIndex int) bool {
		return entries[firstIndex].Report.CreatedAtUnix > entries[secondIndex].Report.CreatedAtUnix
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	tl.Log(tl.Notice, palette.BlueBold, "Found %d stored run(s) under '%s'", len(entries), rootOutputDirPath)
	for _, entry := range entries {
		createdAt := time.Unix(entry.Report.CreatedAtUnix, 0).Format("2006-01-02 15:04:05")
		tl.Log(
			tl.Info, palette.Cyan, "%s | %s | lang '%s' | engine '%s' | %dms",
			createdAt, entry.RunDirPath, entry.Report.Options.Language, entry.Report.EngineName, entry.Report.ElapsedMs,
		)
		tl.Log(tl.Info, palette.CyanDim, "    %s", previewText(entry.Report.Result.FullText))
	}
}

/*
collectHistoryEntries walks the output root for result.json files and loads
each one. Unreadable or malformed reports are skipped with a warning so one
broken run does not hide the rest of the history.
*/
func collectHistoryEntries(rootOutputDirPath string) (entries []historyEntry, e *xerr.Error) {
	entries = make([]historyEntry, 0)

	walkErr := filepath.WalkDir(rootOutputDirPath, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || entry.Name() != ocr.ReportFileName {
			return nil
		}

		report, loadErr := loadRunReport(path)
		if loadErr != nil {
			tl.Log(tl.Warning, palette.PurpleBright, "Skipping unreadable report '%s': %s", path, loadErr)
			return nil
		}

		entries = append(entries, historyEntry{RunDirPath: filepath.Dir(path), Report: report})
		return nil
	})
	if walkErr != nil {
		e = xerr.NewErrorEC(walkErr, "walk run artifact root", "outDir", rootOutputDirPath, false)
		return entries, e
	}

	return entries, e
}

func loadRunReport(reportPath string) (report ocr.RunReport, e *xerr.Error) {
	bytesRead, readErr := os.ReadFile(reportPath)
	if readErr != nil {
		e = xerr.NewErrorEC(readErr, "read report file", "path", reportPath, false)
		return report, e
	}

	unmarshalErr := json.Unmarshal(bytesRead, &report)
	if unmarshalErr != nil {
		e = xerr.NewErrorEC(unmarshalErr, "unmarshal run report", "path", reportPath, false)
		return report, e
	}

	return report, e
}

/*
deleteRun removes one run directory. The directory must live under the
output root and contain a result.json, which keeps a mistyped path from
deleting something unrelated.
*/
func deleteRun(rootOutputDirPath string, runDirPath string) {
	insideRoot, relErr := isInsideRoot(rootOutputDirPath, runDirPath)
	if relErr != nil || !insideRoot {
		tl.Log(tl.Error, palette.Red, "Refusing to delete '%s': not under the output root '%s'", runDirPath, rootOutputDirPath)
		os.Exit(1)
	}

	reportPath := filepath.Join(runDirPath, ocr.ReportFileName)
	if _, statErr := os.Stat(reportPath); statErr != nil {
		tl.Log(tl.Error, palette.Red, "Refusing to delete '%s': no '%s' found, not a run directory", runDirPath, ocr.ReportFileName)
		os.Exit(1)
	}

	removeErr := os.RemoveAll(runDirPath)
	xerr.QuitIfError(removeErr, "Unable to delete run directory")
	tl.Log(tl.Notice1, palette.GreenBold, "Deleted run directory '%s'", runDirPath)
}

// clearRuns deletes every directory under the root that holds a result.json.
func clearRuns(rootOutputDirPath string) {
	entries, e := collectHistoryEntries(rootOutputDirPath)
	e.QuitIf(xerr.ErrorTypeError)

	for _, entry := range entries {
		removeErr := os.RemoveAll(entry.RunDirPath)
		if removeErr != nil {
			tl.Log(tl.Warning, palette.YellowBold, "Unable to delete '%s': %s", entry.RunDirPath, removeErr)
			continue
		}
		tl.Log(tl.Info1, palette.Green, "Deleted run directory '%s'", entry.RunDirPath)
	}

	tl.Log(tl.Notice1, palette.GreenBold, "Cleared %d stored run(s) under '%s'", len(entries), rootOutputDirPath)
}

func isInsideRoot(rootOutputDirPath string, runDirPath string) (inside bool, err error) {
	absoluteRoot, err := filepath.Abs(rootOutputDirPath)
	if err != nil {
		return false, err
	}
	absoluteRun, err := filepath.Abs(runDirPath)
	if err != nil {
		return false, err
	}
	relative, err := filepath.Rel(absoluteRoot, absoluteRun)
	if err != nil {
		return false, err
	}
	return relative != ".." && !strings.HasPrefix(relative, ".."+string(filepath.Separator)) && relative != ".", nil
}

// previewText flattens the recognized text to a single short line.
func previewText(fullText string) string {
	flattened := strings.Join(strings.Fields(fullText), " ")
	if len(flattened) > previewLength {
		return flattened[:previewLength] + "..."
	}
	if flattened == "" {
		return "(no text recognized)"
	}
	return flattened
}
