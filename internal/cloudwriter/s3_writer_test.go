package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	calls  int
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.bucket = *in.Bucket
	f.key = *in.Key
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	fake := &fakeS3{}
	w, err := NewS3WriterFactoryWithClient(context.Background(), fake).NewWriter("exports", "sales/part.parquet")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("PAR1")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("data")); err != nil {
		t.Fatal(err)
	}
	if fake.calls != 0 {
		t.Fatalf("uploaded before Close")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if fake.calls != 1 || fake.bucket != "exports" || fake.key != "sales/part.parquet" || string(fake.body) != "PAR1data" {
		t.Errorf("unexpected upload %+v", fake)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Errorf("write after Close succeeded")
	}
}

func TestS3WriterReportsUploadError(t *testing.T) {
	fake := &fakeS3{err: errors.New("access denied")}
	w, _ := NewS3WriterFactoryWithClient(context.Background(), fake).NewWriter("exports", "x.json")
	if err := w.Close(); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestNewWriterNeedsBucket(t *testing.T) {
	if _, err := NewS3WriterFactoryWithClient(context.Background(), &fakeS3{}).NewWriter("", "x.json"); err == nil {
		t.Fatal("expected error without bucket")
	}
}
