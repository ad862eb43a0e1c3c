// Package storage, yüklenen görsellerin saklandığı yerleri soyutlar.
//
// Repo yolu her zaman "public/images/<folder>/<file>" biçimindedir.
// GitHubStore dosyayı sitenin kaynak reposuna commit eder; DiskStore ise
// GitHub ayarlanmamış kurulumlarda dosyayı yerel upload dizinine yazar.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix, repo yollarının başındaki statik dizin.
const PublicPrefix = "public/"

// ImagesRoot, tüm görsellerin altında durduğu repo dizini.
const ImagesRoot = PublicPrefix + "images/"

// ErrInvalidPath, images kökü dışına çıkan veya bozuk yollar için.
var ErrInvalidPath = errors.New("invalid storage path")

// ImageStore, görsel yükleme ve silme.
type ImageStore interface {
	// Put, içeriği repoPath'e yazar (varsa üzerine) ve public URL'i döner.
	Put(ctx context.Context, repoPath string, content []byte) (string, error)

	// Delete, repoPath'teki dosyayı siler. Dosya yoksa ErrNotExist sarılı döner.
	Delete(ctx context.Context, repoPath string) error

	// Name, log mesajları için kısa ad.
	Name() string
}

// ErrNotExist, silinmek istenen dosya bulunamadığında.
var ErrNotExist = errors.New("file does not exist")

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// GenerateFilename, "<temiz-ad>-<unix-ms>-<rastgele6>.<uzantı>" üretir.
// Temiz ad küçük harfe çevrilir, harf/rakam dışı her karakter "-" olur ve
// 30 karakterle sınırlanır.
func GenerateFilename(originalName string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(originalName, `\`, "/"))

	ext := ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		ext = strings.ToLower(base[i+1:])
		base = base[:i]
	}
	ext = nonAlnum.ReplaceAllString(ext, "")
	if ext == "" {
		ext = "img"
	}

	clean := nonAlnum.ReplaceAllString(strings.ToLower(base), "-")
	if len(clean) > 30 {
		clean = clean[:30]
	}
	if clean == "" {
		clean = "image"
	}

	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]

	return fmt.Sprintf("%s-%d-%s.%s", clean, now.UnixMilli(), random, ext)
}

// ImagePath, folder ve dosya adından repo yolunu kurar.
func ImagePath(folder, filename string) (string, error) {
	p := ImagesRoot + strings.Trim(folder, "/") + "/" + filename
	return CheckPath(p)
}

// CheckPath, yolun images kökü altında kaldığını doğrular ve temiz halini döner.
func CheckPath(repoPath string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(repoPath))[1:]
	if !strings.HasPrefix(cleaned, ImagesRoot) || strings.Contains(repoPath, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, repoPath)
	}
	return cleaned, nil
}

// PublicURL, repo yolunu sitedeki URL'e çevirir: "public/images/x.jpg" → base + "/images/x.jpg".
func PublicURL(baseURL, repoPath string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimPrefix(repoPath, PublicPrefix)
}
