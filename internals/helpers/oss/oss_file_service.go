// Package oss wraps the Aliyun OSS bucket used for generated documents.
package oss

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/configs"
)

type OSSService struct {
	Bucket     *alioss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string
	Prefix     string
}

func NewOSSService(cfg configs.OSSConfig, log *logrus.Logger) (*OSSService, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}
	client, err := alioss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		if se, ok := err.(alioss.ServiceError); ok && se.StatusCode == 403 {
			log.Warnf("[OSS] skip location check (AccessDenied) bucket=%s", cfg.Bucket)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Infof("[OSS] bucket %s location: %s", cfg.Bucket, loc)
	}

	return &OSSService{
		Bucket:     bkt,
		Endpoint:   cfg.Endpoint,
		BucketName: cfg.Bucket,
		PublicBase: strings.TrimSpace(cfg.PublicBase),
		Prefix:     strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// PutBytes upload data ke {prefix}/{dir}/{slug}_{ts}_{rand}{ext} dan kembalikan public URL + key.
func (s *OSSService) PutBytes(ctx context.Context, dir, filename, contentType string, data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("empty object")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := s.BuildObjectKey(dir, filename, time.Now())
	opts := []alioss.Option{
		alioss.WithContext(ctx),
		alioss.ContentType(contentType),
		alioss.ContentDisposition("inline"),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", "", err
	}
	return s.PublicURL(key), key, nil
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, alioss.WithContext(ctx))
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return strings.TrimRight(s.PublicBase, "/") + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func (s *OSSService) BuildObjectKey(dir, filename string, now time.Time) string {
	ext := ""
	base := filename
	if i := strings.LastIndex(filename, "."); i > 0 {
		ext = strings.ToLower(filename[i:])
		base = filename[:i]
	}
	parts := make([]string, 0, 3)
	if s.Prefix != "" {
		parts = append(parts, s.Prefix)
	}
	for _, p := range strings.Split(strings.Trim(dir, "/"), "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, Slugify(p))
		}
	}
	name := fmt.Sprintf("%s_%s_%s%s", Slugify(base), now.Format("20060102_150405"), randHex(3), ext)
	return strings.Join(append(parts, name), "/")
}

func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "file"
	}
	return s
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
