// Package awstest provides in-memory fakes of the AWS APIs for tests.
package awstest

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
)

func NewFakeS3() *FakeS3 {
	return &FakeS3{
		buckets: map[string]map[string][]byte{},
	}
}

// FakeS3 mimics an S3 blob store for testing.
type FakeS3 struct {
	sync.RWMutex
	buckets map[string]map[string][]byte
}

func (m *FakeS3) NewBucket(name string) {
	m.Lock()
	defer m.Unlock()
	m.buckets[name] = map[string][]byte{}
}

func (m *FakeS3) Put(bucket, key string, data []byte) {
	m.Lock()
	defer m.Unlock()

	b, ok := m.buckets[bucket]
	if !ok {
		b = map[string][]byte{}
		m.buckets[bucket] = b
	}
	b[key] = data
}

func (m *FakeS3) GetObjectWithContext(_ context.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	m.RLock()
	defer m.RUnlock()

	bucket, ok := m.buckets[*in.Bucket]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchBucket, fmt.Sprintf("bucket '%s' does not exist", *in.Bucket), nil)
	}

	data, ok := bucket[*in.Key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, fmt.Sprintf("key '%s' does not exist in bucket '%s'", *in.Key, *in.Bucket), nil)
	}

	return &s3.GetObjectOutput{
		Body: ioutil.NopCloser(bytes.NewBuffer(data)),
	}, nil
}

// ListObjectsV2PagesWithContext returns matching keys in lexical order, in
// pages of at most MaxKeys.
func (m *FakeS3) ListObjectsV2PagesWithContext(_ context.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	m.RLock()
	defer m.RUnlock()

	bucket, ok := m.buckets[*in.Bucket]
	if !ok {
		return awserr.New(s3.ErrCodeNoSuchBucket, fmt.Sprintf("bucket '%s' does not exist", *in.Bucket), nil)
	}

	var keys []string
	for key := range bucket {
		if strings.HasPrefix(key, aws.StringValue(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	pageSize := int(aws.Int64Value(in.MaxKeys))
	if pageSize <= 0 {
		pageSize = 1000
	}
	for start := 0; start < len(keys) || start == 0; start += pageSize {
		end := start + pageSize
		if end > len(keys) {
			end = len(keys)
		}
		var objects []*s3.Object
		for _, key := range keys[start:end] {
			objects = append(objects, &s3.Object{
				Key:  aws.String(key),
				Size: aws.Int64(int64(len(bucket[key]))),
			})
		}
		out := new(s3.ListObjectsV2Output)
		out.SetContents(objects)
		if !fn(out, end >= len(keys)) || end >= len(keys) {
			break
		}
	}
	return nil
}
