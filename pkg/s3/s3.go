package s3

import (
	"fmt"
	"net/url"
	"strings"

	"simple-forum/pkg/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Client manages objects in the bucket holding blog cover images.
type Client struct {
	s3Client *s3.S3
	bucket   string
}

func NewClient(cfg *config.Config) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}

	// Support MinIO for local development
	if cfg.AWSEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWSEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		if cfg.S3UseSSL == "false" {
			awsConfig.DisableSSL = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &Client{
		s3Client: s3.New(sess),
		bucket:   cfg.S3BucketName,
	}, nil
}

func (c *Client) DeleteFile(key string) error {
	_, err := c.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// DeleteFileByURL deletes the object behind a URL that points into the
// client's bucket, in either the path-style (MinIO) or the virtual-host
// (AWS) format.
func (c *Client) DeleteFileByURL(fileURL string) error {
	key, err := c.keyFromURL(fileURL)
	if err != nil {
		return err
	}
	return c.DeleteFile(key)
}

func (c *Client) keyFromURL(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid object url %q", fileURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(u.Host, c.bucket+".s3.") || strings.HasPrefix(u.Host, c.bucket+".s3-") {
		if path == "" {
			return "", fmt.Errorf("object url %q has no key", fileURL)
		}
		return path, nil
	}

	key, found := strings.CutPrefix(path, c.bucket+"/")
	if !found || key == "" {
		return "", fmt.Errorf("object url %q is not in bucket %s", fileURL, c.bucket)
	}
	return key, nil
}
