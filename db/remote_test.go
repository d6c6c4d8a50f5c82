package db

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectScheme(t *testing.T) {
	tests := []struct {
		path     string
		expected urlScheme
	}{
		{"s3://bucket/key.sql", schemeS3},
		{"S3://bucket/key.sql", schemeS3},
		{"https://example.com/a.sql", schemeHTTPS},
		{"http://example.com/a.sql", schemeHTTP},
		{"file:///tmp/a.sql", schemeFile},
		{"/tmp/a.sql", schemeLocal},
		{"relative/a.sql", schemeLocal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, detectScheme(tt.path), tt.path)
	}
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://scripts/ddl/schema.sql")
	require.NoError(t, err)
	assert.Equal(t, "scripts", bucket)
	assert.Equal(t, "ddl/schema.sql", key)

	for _, invalid := range []string{"s3://bucket", "s3://bucket/", "s3:///key"} {
		_, _, err := parseS3URL(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestLocalSourceAndSink(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "schema.sql")

	sink, err := OpenSink(ctx, "file://"+path, nil)
	require.NoError(t, err)
	_, err = io.WriteString(sink, "CREATE TABLE A;\n")
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	script, err := ReadSource(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, script.Name)
	assert.Equal(t, "CREATE TABLE A;\n", script.Text)

	_, err = ReadSource(ctx, filepath.Join(t.TempDir(), "missing.sql"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schema.sql" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "CREATE TABLE REMOTE (A DATE)")
	}))
	defer server.Close()

	ctx := context.Background()
	script, err := ReadSource(ctx, server.URL+"/schema.sql", nil)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE REMOTE (A DATE)", script.Text)

	_, err = OpenSource(ctx, server.URL+"/missing.sql", nil)
	assert.ErrorContains(t, err, "status 404")

	_, err = OpenSink(ctx, server.URL+"/out.sql", nil)
	assert.ErrorContains(t, err, "does not support writing")
}

type fakeUploader struct {
	bucket string
	key    string
	body   string
}

func (f *fakeUploader) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	uploader := &fakeUploader{}
	writer := &s3Writer{ctx: context.Background(), client: uploader, bucket: "ddl", key: "out.sql"}

	_, err := io.WriteString(writer, "CREATE TABLE A;\n")
	require.NoError(t, err)
	_, err = io.WriteString(writer, "CREATE TABLE B;\n")
	require.NoError(t, err)
	assert.Empty(t, uploader.body, "nothing is uploaded before Close")

	require.NoError(t, writer.Close())
	assert.Equal(t, "ddl", uploader.bucket)
	assert.Equal(t, "out.sql", uploader.key)
	assert.Equal(t, "CREATE TABLE A;\nCREATE TABLE B;\n", uploader.body)

	_, err = writer.Write([]byte("x"))
	assert.Error(t, err)
	assert.NoError(t, writer.Close())
}
