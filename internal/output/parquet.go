package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"sync"

	"github.com/chrisdamba/tablepos/internal/cloudwriter"
	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/lucsky/cuid"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetOutput writes one Parquet file per topic and hourly partition for
// the lifetime of the output. Each run gets its own part file so earlier
// exports are never overwritten. Files are finished on Close.
type ParquetOutput struct {
	basePath           string
	folder             string
	runID              string
	mu                 sync.Mutex
	writers            map[string]*writer.ParquetWriter
	files              map[string]source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

// CloudParquetFile adapts a CloudWriter to the write side of
// source.ParquetFile.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) {
	return c, nil
}

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	case io.SeekEnd:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (n int, err error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (n int, err error) {
	n, err = c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

// NewParquetOutput writes under cfg.OutputPath, or to the configured bucket
// when cloud_storage.provider is set.
func NewParquetOutput(cfg *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: cfg.OutputPath,
		folder:   cfg.OutputFolder,
		runID:    cuid.New(),
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}

	switch cfg.CloudStorage.Provider {
	case "":
	case "s3":
		factory, err := cloudwriter.NewS3WriterFactory(context.Background(), cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}
		p.cloudWriterFactory = factory
		p.cloudBucketName = cfg.CloudStorage.BucketName
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
	}
	return p, nil
}

// NewParquetOutputWithFactory writes every file through factory into bucket.
func NewParquetOutputWithFactory(folder, bucket string, factory cloudwriter.CloudWriterFactory) *ParquetOutput {
	return &ParquetOutput{
		folder:             folder,
		runID:              cuid.New(),
		writers:            make(map[string]*writer.ParquetWriter),
		files:              make(map[string]source.ParquetFile),
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
	}
}

// rowPrototype returns the Parquet layout of a topic.
func rowPrototype(topic string) (interface{}, error) {
	switch topic {
	case models.TopicSaleEvents:
		return new(SaleEvent), nil
	case models.TopicLowStockEvents:
		return new(LowStockEvent), nil
	case models.TopicKitchenTicketEvents:
		return new(KitchenTicketEvent), nil
	case models.TopicLossEvents:
		return new(LossEvent), nil
	default:
		return nil, fmt.Errorf("no parquet layout for topic: %s", topic)
	}
}

func decodeRow(topic string, msg []byte) (interface{}, error) {
	var err error
	switch topic {
	case models.TopicSaleEvents:
		var e SaleEvent
		err = json.Unmarshal(msg, &e)
		return e, err
	case models.TopicLowStockEvents:
		var e LowStockEvent
		err = json.Unmarshal(msg, &e)
		return e, err
	case models.TopicKitchenTicketEvents:
		var e KitchenTicketEvent
		err = json.Unmarshal(msg, &e)
		return e, err
	case models.TopicLossEvents:
		var e LossEvent
		err = json.Unmarshal(msg, &e)
		return e, err
	default:
		return nil, fmt.Errorf("no parquet layout for topic: %s", topic)
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	_, eventTime, err := decodeEvent(msg)
	if err != nil {
		return err
	}
	row, err := decodeRow(topic, msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	writerKey := fmt.Sprintf("%s_%s", topic, partitionPath(eventTime))
	pw, ok := p.writers[writerKey]
	if !ok {
		pw, err = p.createNewWriter(writerKey, topic, partitionPath(eventTime))
		if err != nil {
			return fmt.Errorf("failed to create new writer: %w", err)
		}
	}

	if err := pw.Write(row); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createNewWriter(writerKey, topic, partition string) (*writer.ParquetWriter, error) {
	proto, err := rowPrototype(topic)
	if err != nil {
		return nil, err
	}
	fileName := fmt.Sprintf("part-%s.parquet", p.runID)

	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := path.Join(p.folder, topic, partition, fileName)
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath, err := partitionDirFromPath(p.basePath, p.folder, topic, partition)
		if err != nil {
			return nil, err
		}
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, fileName))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, proto, 4)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	p.writers[writerKey] = pw
	p.files[writerKey] = fw
	return pw, nil
}

// Close finishes every file. Cloud objects are uploaded here.
func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
			log.Printf("Error closing writer for key %s: %v", key, err)
		}
		if f, ok := p.files[key]; ok {
			if err := f.Close(); err != nil {
				lastErr = err
				log.Printf("Error closing file for key %s: %v", key, err)
			}
		}
	}
	p.writers = make(map[string]*writer.ParquetWriter)
	p.files = make(map[string]source.ParquetFile)
	return lastErr
}
