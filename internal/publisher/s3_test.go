package publisher

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "CopperAnalytics/internal/config"
)

type putCall struct {
	key         string
	body        string
	contentType string
}

type fakeS3 struct {
	calls  []putCall
	failOn string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if key == f.failOn {
		return nil, errors.New("access denied")
	}
	body, _ := io.ReadAll(in.Body)
	f.calls = append(f.calls, putCall{key: key, body: string(body), contentType: aws.ToString(in.ContentType)})
	return &s3.PutObjectOutput{}, nil
}

func TestS3Publisher_ReportBeforeCompanion(t *testing.T) {
	fake := &fakeS3{}
	p := &S3Publisher{Client: fake, Bucket: "bucket", ReportKey: "copper/analysis.json", CompanionKey: "copper/last_updated.json"}

	require.NoError(t, p.Publish(context.Background(), []byte(`{"status":"success"}`), []byte(`{"unix_timestamp":1}`)))
	require.Len(t, fake.calls, 2)
	assert.Equal(t, "copper/analysis.json", fake.calls[0].key)
	assert.Equal(t, `{"status":"success"}`, fake.calls[0].body)
	assert.Equal(t, "application/json", fake.calls[0].contentType)
	assert.Equal(t, "copper/last_updated.json", fake.calls[1].key)
}

func TestS3Publisher_ReportFailureSkipsCompanion(t *testing.T) {
	fake := &fakeS3{failOn: "analysis.json"}
	p := &S3Publisher{Client: fake, Bucket: "bucket", ReportKey: "analysis.json", CompanionKey: "last_updated.json"}

	err := p.Publish(context.Background(), []byte("{}"), []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis.json")
	assert.Empty(t, fake.calls)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "copper/analysis.json", ObjectKey("copper", "docs/analysis.json"))
	assert.Equal(t, "analysis.json", ObjectKey("", "docs/analysis.json"))
	assert.Equal(t, "a/b/last_updated.json", ObjectKey("a/b/", "last_updated.json"))
}

func TestNewS3Publisher_Disabled(t *testing.T) {
	_, err := NewS3Publisher(context.Background(), appconfig.S3Config{}, "a.json", "b.json", "1.1")
	assert.Error(t, err)
}

func TestNewS3Publisher_Keys(t *testing.T) {
	p, err := NewS3Publisher(context.Background(), appconfig.S3Config{
		Enabled:         true,
		Bucket:          "reports",
		Region:          "us-east-1",
		Prefix:          "copper",
		Endpoint:        "http://localhost:9000",
		PathStyle:       true,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	}, "docs/analysis.json", "docs/last_updated.json", "1.1")
	require.NoError(t, err)
	assert.Equal(t, "copper/analysis.json", p.ReportKey)
	assert.Equal(t, "copper/last_updated.json", p.CompanionKey)
	assert.Equal(t, "s3://reports", p.Name())
}
