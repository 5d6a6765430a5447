package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

const (
	// maxS3Keys is the maximum amount of keys to be returned by a single S3
	// list objects API response
	maxS3Keys = 200
)

// Location is a parsed s3://bucket/prefix URL.
type Location struct {
	Bucket string
	Prefix string
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Prefix
}

// ParseLocation parses an s3:// URL into its bucket and key prefix.
func ParseLocation(loc string) (Location, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return Location{}, fmt.Errorf("invalid S3 location %q: %v", loc, err)
	}
	if u.Scheme != "s3" {
		return Location{}, fmt.Errorf("invalid S3 location %q: scheme must be s3", loc)
	}
	if u.Host == "" {
		return Location{}, fmt.Errorf("invalid S3 location %q: missing bucket", loc)
	}
	return Location{
		Bucket: u.Host,
		Prefix: strings.TrimPrefix(u.Path, "/"),
	}, nil
}

// SourceInspector inspects the S3 objects the ETL pipeline loads from.
type SourceInspector struct {
	s3API S3API
}

func NewSourceInspector(s3API S3API) *SourceInspector {
	return &SourceInspector{s3API: s3API}
}

// CountObjects returns the number of non-empty objects under loc, stopping
// once limit objects have been seen. A limit of 0 counts everything.
func (i *SourceInspector) CountObjects(ctx context.Context, loc Location, limit int) (int, error) {
	var count int
	pageFn := func(out *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range out.Contents {
			// skip "directory" placeholder keys
			if strings.HasSuffix(aws.StringValue(obj.Key), "/") || aws.Int64Value(obj.Size) == 0 {
				continue
			}
			count++
			if limit > 0 && count >= limit {
				return false
			}
		}
		return true
	}

	err := i.s3API.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(loc.Bucket),
		Prefix:  aws.String(loc.Prefix),
		MaxKeys: aws.Int64(maxS3Keys),
	}, pageFn)
	if err != nil {
		return 0, fmt.Errorf("could not list objects in %s: %v", loc, err)
	}
	return count, nil
}

// JSONPaths is a Redshift COPY JSONPaths mapping file.
type JSONPaths struct {
	Paths []string `json:"jsonpaths"`
}

// RetrieveJSONPaths downloads and decodes the JSONPaths file at loc.
func (i *SourceInspector) RetrieveJSONPaths(ctx context.Context, loc Location) (*JSONPaths, error) {
	obj, err := i.s3API.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("can't get JSONPaths file %s: %v", loc, err)
	}
	defer obj.Body.Close()

	var paths JSONPaths
	if err := json.NewDecoder(obj.Body).Decode(&paths); err != nil {
		return nil, fmt.Errorf("can't decode JSONPaths file %s: %v", loc, err)
	}
	if len(paths.Paths) == 0 {
		return nil, fmt.Errorf("JSONPaths file %s has no jsonpaths entries", loc)
	}
	return &paths, nil
}
