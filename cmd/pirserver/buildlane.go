package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blocklane/pir/config"
	"github.com/blocklane/pir/db"
	"github.com/blocklane/pir/pir"
	"github.com/blocklane/pir/ring"
)

func buildLaneCmd() *cobra.Command {
	var (
		configPath  string
		envFile     string
		lane        string
		recordsPath string
		outDir      string
		crsPath     string
		recordWidth int
		blockNumber uint64
	)

	cmd := &cobra.Command{
		Use:   "build-lane",
		Short: "materialise one lane's shard files and CRS sidecar from a flat record file",
		Long: "Reads one hex-encoded record per line from --records, packs them into the\n" +
			"grid's rows, and writes one shard file per row under --out plus a CRS\n" +
			"sidecar at --crs. The state-extraction pipeline that produces the record\n" +
			"file itself is a separate, external concern.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildLane(configPath, envFile, lane, recordsPath, outDir, crsPath, recordWidth, blockNumber)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "pirserver.yaml", "path to the YAML configuration file (for rlwe_params/version)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "optional .env file with PIR_ environment overrides")
	cmd.Flags().StringVar(&lane, "lane", "", "lane name (required)")
	cmd.Flags().StringVar(&recordsPath, "records", "", "path to a file with one hex-encoded record per line (required)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for shard files (required)")
	cmd.Flags().StringVar(&crsPath, "crs", "", "output path for the CRS sidecar (required)")
	cmd.Flags().IntVar(&recordWidth, "record-width", 0, "record width in bytes (required)")
	cmd.Flags().Uint64Var(&blockNumber, "block-number", 0, "block number this lane's state was extracted at")
	_ = cmd.MarkFlagRequired("lane")
	_ = cmd.MarkFlagRequired("records")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("crs")
	_ = cmd.MarkFlagRequired("record-width")
	return cmd
}

func readHexRecords(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("build-lane: open %s: %w", path, err)
	}
	defer f.Close()

	var records [][]byte
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rec, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("build-lane: decode record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("build-lane: scan %s: %w", path, err)
	}
	return records, nil
}

func runBuildLane(configPath, envFile, laneName, recordsPath, outDir, crsPath string, recordWidth int, blockNumber uint64) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}
	rlweParams, err := cfg.RlweParameters()
	if err != nil {
		return err
	}

	records, err := readHexRecords(recordsPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("build-lane: %s contains no records", recordsPath)
	}

	params, err := pir.NewPirParams(rlweParams, cfg.Version, len(records), recordWidth)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("build-lane: mkdir %s: %w", outDir, err)
	}

	for row := 0; row < params.D1; row++ {
		start := row * params.D2
		end := start + params.D2
		if end > len(records) {
			end = len(records)
		}
		var rowRecords [][]byte
		if start < len(records) {
			rowRecords = records[start:end]
		}

		pt, err := pir.PackRow(params, rowRecords)
		if err != nil {
			return fmt.Errorf("build-lane: pack row %d: %w", row, err)
		}

		path := filepath.Join(outDir, fmt.Sprintf("shard-%06d.shard", row))
		if err := db.WriteShardFile(path, params.RecordWidthBytes, []ring.Poly{pt.Value}); err != nil {
			return fmt.Errorf("build-lane: write shard %d: %w", row, err)
		}
	}

	crs := db.CrsMetadata{
		PirParamsVersion: cfg.Version,
		Lane:             laneName,
		EntrySize:        recordWidth,
		EntryCount:       len(records),
		BlockNumber:      blockNumber,
	}
	if err := crs.Save(crsPath); err != nil {
		return fmt.Errorf("build-lane: write crs %s: %w", crsPath, err)
	}

	fmt.Printf("wrote %d shard rows and crs for lane %s\n", params.D1, laneName)
	return nil
}
