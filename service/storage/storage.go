/*
 * @module service/storage/storage
 * @description 存储访问器，管理index.json数据集索引、rules.json规则文件和按数据集划分的文件目录
 * @architecture 分层架构 - 存储层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 读取索引 -> 修改 -> 整体写回
 * @rules 索引和规则文件的读改写由进程内互斥锁串行化；目录删除失败只记录日志不上抛
 * @dependencies encoding/json, os, sync
 * @refs service/dataset, service/rules, service/cleanup
 */

package storage

import (
	"datasteward-service/service/models"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	indexFile = "index.json"
	rulesFile = "rules.json"
)

// Storage 存储访问器
type Storage struct {
	dir string
	mu  sync.Mutex
}

// NewStorage 创建存储访问器，确保存储目录存在
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir 存储根目录
func (s *Storage) Dir() string {
	return s.dir
}

// ReadIndex 读取存储索引，文件不存在时创建空索引并持久化
func (s *Storage) ReadIndex() (*models.StorageIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndexLocked()
}

func (s *Storage) readIndexLocked() (*models.StorageIndex, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			index := &models.StorageIndex{Datasets: map[string]*models.DatasetMetadata{}}
			if writeErr := s.writeIndexLocked(index); writeErr != nil {
				return nil, writeErr
			}
			return index, nil
		}
		return nil, fmt.Errorf("读取索引文件失败: %w", err)
	}

	var index models.StorageIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("解析索引文件失败: %w", err)
	}
	if index.Datasets == nil {
		index.Datasets = map[string]*models.DatasetMetadata{}
	}
	return &index, nil
}

// WriteIndex 写入存储索引，写入前刷新lastUpdated时间戳
func (s *Storage) WriteIndex(index *models.StorageIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeIndexLocked(index)
}

func (s *Storage) writeIndexLocked(index *models.StorageIndex) error {
	index.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化索引失败: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), data, 0o644); err != nil {
		return fmt.Errorf("写入索引文件失败: %w", err)
	}
	return nil
}

// GetDatasetMeta 按ID查询数据集元数据，不存在时返回nil
func (s *Storage) GetDatasetMeta(id string) (*models.DatasetMetadata, error) {
	index, err := s.ReadIndex()
	if err != nil {
		return nil, err
	}
	return index.Datasets[id], nil
}

// SaveDatasetMeta 保存数据集元数据（读-改-写）
func (s *Storage) SaveDatasetMeta(meta *models.DatasetMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndexLocked()
	if err != nil {
		return err
	}
	index.Datasets[meta.ID] = meta
	return s.writeIndexLocked(index)
}

// DeleteDataset 删除数据集目录和索引条目，条目不存在时返回false
func (s *Storage) DeleteDataset(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndexLocked()
	if err != nil {
		return false, err
	}
	if _, ok := index.Datasets[id]; !ok {
		return false, nil
	}

	// 目录删除为尽力而为，失败不阻塞索引更新
	if err := os.RemoveAll(s.DatasetPath(id, "")); err != nil {
		slog.Warn("删除数据集目录失败", "dataset_id", id, "error", err)
	}

	delete(index.Datasets, id)
	if err := s.writeIndexLocked(index); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteDatasetDir 删除数据集目录，保留索引条目（供保留期清理使用）
func (s *Storage) DeleteDatasetDir(id string) {
	if err := os.RemoveAll(s.DatasetPath(id, "")); err != nil {
		slog.Warn("删除数据集目录失败", "dataset_id", id, "error", err)
	}
}

// DatasetPath 数据集文件路径，subpath为空时返回数据集目录
func (s *Storage) DatasetPath(id, subpath string) string {
	return filepath.Join(s.dir, "datasets", id, subpath)
}

// EnsureDatasetDir 确保数据集raw目录存在，返回目录路径
func (s *Storage) EnsureDatasetDir(id string) (string, error) {
	dir := s.DatasetPath(id, "raw")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建数据集目录失败: %w", err)
	}
	return dir, nil
}

// ReadDatasetFile 读取数据集文件
func (s *Storage) ReadDatasetFile(id, filename string) ([]byte, error) {
	data, err := os.ReadFile(s.DatasetPath(id, filename))
	if err != nil {
		return nil, fmt.Errorf("读取数据集文件失败: %w", err)
	}
	return data, nil
}

// WriteDatasetFile 写入数据集文件，自动创建父目录
func (s *Storage) WriteDatasetFile(id, filename string, content []byte) error {
	path := s.DatasetPath(id, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建数据集目录失败: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("写入数据集文件失败: %w", err)
	}
	return nil
}

// ReadRules 读取规则列表，文件不存在时创建空列表并持久化
func (s *Storage) ReadRules() ([]*models.RuleSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRulesLocked()
}

func (s *Storage) readRulesLocked() ([]*models.RuleSpec, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, rulesFile))
	if err != nil {
		if os.IsNotExist(err) {
			rules := []*models.RuleSpec{}
			if writeErr := s.writeRulesLocked(rules); writeErr != nil {
				return nil, writeErr
			}
			return rules, nil
		}
		return nil, fmt.Errorf("读取规则文件失败: %w", err)
	}

	var rules []*models.RuleSpec
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("解析规则文件失败: %w", err)
	}
	return rules, nil
}

// WriteRules 写入规则列表
func (s *Storage) WriteRules(rules []*models.RuleSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeRulesLocked(rules)
}

func (s *Storage) writeRulesLocked(rules []*models.RuleSpec) error {
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化规则失败: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, rulesFile), data, 0o644); err != nil {
		return fmt.Errorf("写入规则文件失败: %w", err)
	}
	return nil
}

// MutateRules 在锁保护下对规则列表执行读-改-写
func (s *Storage) MutateRules(fn func(rules []*models.RuleSpec) ([]*models.RuleSpec, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rules, err := s.readRulesLocked()
	if err != nil {
		return err
	}
	updated, err := fn(rules)
	if err != nil {
		return err
	}
	return s.writeRulesLocked(updated)
}
