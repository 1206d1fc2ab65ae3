package utils

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid"
	"golang.org/x/crypto/blake2b"
)

const (
	codigoAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codigoLength   = 10
	// CodigoPrefix 含水量试验编号前缀
	CodigoPrefix = "HUM"
)

// GenerateCodigo 生成试验编号, e.g. HUM-7K2Q9D0XAB
func GenerateCodigo() (string, error) {
	id, err := gonanoid.Generate(codigoAlphabet, codigoLength)
	if err != nil {
		return "", fmt.Errorf("generate codigo: %w", err)
	}
	return CodigoPrefix + "-" + id, nil
}

// Checksum 计算记录的 BLAKE2b-256 摘要 (hex). The JSON encoding of v is hashed,
// so struct field order fixes the digest.
func Checksum(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ReportFilename 报告文件名 Humedad_<OT>_<YYYY-MM-DD>.xlsx
func ReportFilename(numeroOT, date string) string {
	ot := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(numeroOT))
	return fmt.Sprintf("Humedad_%s_%s.xlsx", ot, date)
}
