/*
 * @module service/dataset/service
 * @description 数据集服务，负责元数据的创建、查询、更新、删除和采集任务入队
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 创建元数据(status=new) -> 持久化 -> 入队采集任务
 * @rules 元数据持久化与入队之间无事务耦合：持久化成功后入队失败会留下不一致窗口
 * @dependencies service/storage, service/ingest
 * @refs api/controllers/dataset_controller.go
 */

package dataset

import (
	"context"
	"datasteward-service/service/apperrors"
	"datasteward-service/service/ingest"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"datasteward-service/service/utils"
	"time"
)

// Service 数据集服务
type Service struct {
	storage *storage.Storage
	broker  ingest.Broker
}

// NewService 创建数据集服务实例
func NewService(store *storage.Storage, broker ingest.Broker) *Service {
	return &Service{storage: store, broker: broker}
}

// CreateDataset 创建数据集并入队采集任务
func (s *Service) CreateDataset(ctx context.Context, filename string, size int64, originalPath string) (*models.DatasetMetadata, error) {
	meta := &models.DatasetMetadata{
		ID:           utils.GenerateDatasetID(),
		Filename:     filename,
		OriginalPath: originalPath,
		Size:         size,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Status:       models.DatasetStatusNew,
	}

	if err := s.storage.SaveDatasetMeta(meta); err != nil {
		return nil, err
	}

	// 入队失败不回滚已持久化的元数据
	if err := s.broker.Enqueue(ctx, &models.QueueJob{
		DatasetID: meta.ID,
		Action:    models.JobActionIngest,
	}); err != nil {
		return nil, err
	}

	return meta, nil
}

// GetDataset 按ID查询数据集，不存在时返回NotFound
func (s *Service) GetDataset(id string) (*models.DatasetMetadata, error) {
	meta, err := s.storage.GetDatasetMeta(id)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, apperrors.NotFound("DATASET_NOT_FOUND", "Dataset %s not found", id)
	}
	return meta, nil
}

// ListDatasets 列出全部数据集
func (s *Service) ListDatasets() ([]*models.DatasetMetadata, error) {
	index, err := s.storage.ReadIndex()
	if err != nil {
		return nil, err
	}
	datasets := make([]*models.DatasetMetadata, 0, len(index.Datasets))
	for _, meta := range index.Datasets {
		datasets = append(datasets, meta)
	}
	return datasets, nil
}

// DeleteDataset 删除数据集，不存在时返回NotFound
func (s *Service) DeleteDataset(id string) error {
	deleted, err := s.storage.DeleteDataset(id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("DATASET_NOT_FOUND", "Dataset %s not found", id)
	}
	return nil
}

// UpdateDatasetMeta 浅合并更新元数据，后写覆盖先写
func (s *Service) UpdateDatasetMeta(id string, update func(meta *models.DatasetMetadata)) (*models.DatasetMetadata, error) {
	meta, err := s.GetDataset(id)
	if err != nil {
		return nil, err
	}

	update(meta)

	if err := s.storage.SaveDatasetMeta(meta); err != nil {
		return nil, err
	}
	return meta, nil
}
