// Package bench loads benchmark instance configurations from CSV, runs them
// through the clustering engine, and records results back out to CSV.
package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/gilchrisn/sbp-clustering/pkg/graphgen/lfr"
	"github.com/gilchrisn/sbp-clustering/pkg/graphgen/standard"
)

// LoadStandardConfigs reads a CSV with header n,k,p_in,p_out into a slice of
// standard.Config. Rows with malformed fields are skipped, matching the
// permissive parse-and-continue behavior of the engine this was ported from.
func LoadStandardConfigs(path string) ([]standard.Config, error) {
	rows, err := readCSVBody(path)
	if err != nil {
		return nil, err
	}

	var configs []standard.Config
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		n, errN := strconv.Atoi(row[0])
		k, errK := strconv.Atoi(row[1])
		pIn, errIn := strconv.ParseFloat(row[2], 64)
		pOut, errOut := strconv.ParseFloat(row[3], 64)
		if errN != nil || errK != nil || errIn != nil || errOut != nil {
			continue
		}
		configs = append(configs, standard.Config{N: n, K: k, PIn: pIn, POut: pOut})
	}
	return configs, nil
}

// LoadLFRConfigs reads a CSV with header n,tau1,tau2,mu,avg_degree,min_comm_size
// into a slice of lfr.Config.
func LoadLFRConfigs(path string) ([]lfr.Config, error) {
	rows, err := readCSVBody(path)
	if err != nil {
		return nil, err
	}

	var configs []lfr.Config
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		n, errN := strconv.Atoi(row[0])
		tau1, errT1 := strconv.ParseFloat(row[1], 64)
		tau2, errT2 := strconv.ParseFloat(row[2], 64)
		mu, errMu := strconv.ParseFloat(row[3], 64)
		avgDeg, errDeg := strconv.Atoi(row[4])
		minComm, errMin := strconv.Atoi(row[5])
		if errN != nil || errT1 != nil || errT2 != nil || errMu != nil || errDeg != nil || errMin != nil {
			continue
		}
		configs = append(configs, lfr.Config{
			N: n, Tau1: tau1, Tau2: tau2, Mu: mu,
			AvgDegree: avgDeg, MinCommSize: minComm,
		})
	}
	return configs, nil
}

func readCSVBody(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bench: opening config file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("bench: reading config file: %w", err)
	}
	if len(rows) < 1 {
		return nil, nil
	}
	return rows[1:], nil
}
