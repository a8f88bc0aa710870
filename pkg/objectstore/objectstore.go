// Package objectstore signs uploads to S3 and moves post media into place.
package objectstore

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/prometheusfi/prometheus/pkg/errx"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// UploadExpiry is how long a presigned upload URL stays valid.
const UploadExpiry = 60 * time.Second

var videoExts = []string{"mp4", "mov", "avi"}

// RemoteUpload is what a client needs to PUT a file.
type RemoteUpload struct {
	RemoteName string `json:"remoteName"`
	UploadURL  string `json:"uploadUrl"`
}

// MoveResult reports a completed media move. Video needs transcoding before
// it is ready.
type MoveResult struct {
	Success    bool
	MediaReady bool
}

// Store is the narrow surface the services use.
type Store interface {
	UploadURL(ctx context.Context, ext, mediaType, id string) (RemoteUpload, error)
	MovePostMedia(ctx context.Context, userID, postID, filename string) (MoveResult, error)
}

type Config struct {
	Region          string
	Bucket          string
	Endpoint        string // optional, for S3 compatible stores such as MinIO
	AccessKeyID     string // optional, the default credential chain is used when empty
	SecretAccessKey string
	DisableSSL      bool
}

// Configured reports whether Region and Bucket are both set.
func (c Config) Configured() bool {
	return c.Region != "" && c.Bucket != ""
}

// IsVideo reports whether a file extension or name is a video format.
func IsVideo(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	return slices.ContainsFunc(videoExts, func(ext string) bool {
		return name == ext || strings.HasSuffix(name, "."+ext)
	})
}

func videoPrefix(video bool) string {
	if video {
		return "uploads/"
	}
	return ""
}

// UploadKey is {uploads/ if video}{type}s/{id}/{name}.
func UploadKey(ext, mediaType, id, name string) string {
	return videoPrefix(IsVideo(ext)) + path.Join(mediaType+"s", id, name)
}

// PostMediaKeys returns the staging key a client uploaded to and the key
// the media lives at once attached to postID.
func PostMediaKeys(userID, postID, filename string) (from, to string) {
	prefix := videoPrefix(IsVideo(filename))
	return prefix + path.Join("posts", userID, filename),
		prefix + path.Join("posts", userID, postID, filename)
}

// S3 is the Store backed by aws-sdk-go.
type S3 struct {
	client s3iface.S3API
	bucket string
}

// NewS3 builds a client. It does not touch the network.
func NewS3(cfg Config) (*S3, error) {
	if !cfg.Configured() {
		return nil, errMissingConfig()
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.DisableSSL = aws.Bool(cfg.DisableSSL)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return NewS3WithClient(s3.New(sess), cfg.Bucket), nil
}

func NewS3WithClient(client s3iface.S3API, bucket string) *S3 {
	return &S3{client: client, bucket: bucket}
}

// UploadURL presigns a PUT for a fresh object name under the key layout.
func (s *S3) UploadURL(ctx context.Context, ext, mediaType, id string) (RemoteUpload, error) {
	name := uuid.NewString() + "." + ext
	key := UploadKey(ext, mediaType, id, name)

	req, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(UploadExpiry)
	if err != nil {
		slogx.FromContext(ctx).Error("presign upload failed", "key", key, "error", err)
		return RemoteUpload{}, errx.Internal("Not able to generate signed url.").Wrap(err)
	}

	return RemoteUpload{RemoteName: name, UploadURL: url}, nil
}

// MovePostMedia copies the staged upload under the post and deletes the
// original.
func (s *S3) MovePostMedia(ctx context.Context, userID, postID, filename string) (MoveResult, error) {
	log := slogx.FromContext(ctx)
	from, to := PostMediaKeys(userID, postID, filename)

	log.Debug("copying media", "from", from, "to", to)
	if _, err := s.client.CopyObjectWithContext(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + from),
		Key:        aws.String(to),
	}); err != nil {
		log.Error("copy media failed", "from", from, "error", err)
		return MoveResult{}, errx.Internal("Error moving media asset").Wrap(err)
	}

	if _, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(from),
	}); err != nil {
		log.Error("delete staged media failed", "key", from, "error", err)
		return MoveResult{}, errx.Internal("Error moving media asset").Wrap(err)
	}

	return MoveResult{Success: true, MediaReady: !IsVideo(filename)}, nil
}

func errMissingConfig() *errx.Error {
	return errx.Internal("Missing AWS configuration")
}

// Unconfigured is the Store used when no bucket is configured. Every call
// fails with the missing configuration error.
type Unconfigured struct{}

func (Unconfigured) UploadURL(context.Context, string, string, string) (RemoteUpload, error) {
	return RemoteUpload{}, errMissingConfig()
}

func (Unconfigured) MovePostMedia(context.Context, string, string, string) (MoveResult, error) {
	return MoveResult{}, errMissingConfig()
}
