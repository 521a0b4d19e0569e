package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects     map[string][]byte
	contentType map[string]string
	bucket      string
	putErr      error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentType: map[string]string{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(in.Bucket)
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.bucket = aws.ToString(in.Bucket)
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.contentType[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Storage_PutThenGet(t *testing.T) {
	client := newFakeS3()
	store := NewS3StorageWithClient(client, "catalog-bucket", "/store/")
	ctx := context.Background()

	require.NoError(t, store.PutObject(ctx, "exports/products.csv", []byte("id,name\n"), "text/csv"))
	assert.Contains(t, client.objects, "store/exports/products.csv")
	assert.Equal(t, "text/csv", client.contentType["store/exports/products.csv"])
	assert.Equal(t, "catalog-bucket", client.bucket)

	data, err := store.GetObject(ctx, "/exports/products.csv")
	require.NoError(t, err)
	assert.Equal(t, "id,name\n", string(data))
}

func TestS3Storage_NoPrefix(t *testing.T) {
	client := newFakeS3()
	client.objects["equantum_SOT2.csv"] = []byte("id\n")
	store := NewS3StorageWithClient(client, "b", "")

	data, err := store.GetObject(context.Background(), "equantum_SOT2.csv")
	require.NoError(t, err)
	assert.Equal(t, "id\n", string(data))
}

func TestS3Storage_MissingObject(t *testing.T) {
	store := NewS3StorageWithClient(newFakeS3(), "b", "")

	_, err := store.GetObject(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Storage_PutError(t *testing.T) {
	client := newFakeS3()
	client.putErr = errors.New("access denied")
	store := NewS3StorageWithClient(client, "b", "")

	err := store.PutObject(context.Background(), "x.csv", []byte("x"), "text/csv")
	assert.ErrorContains(t, err, "access denied")
}
