/*
 * @module api/controllers/dataset_controller
 * @description 数据集控制器：文件上传、元数据查询、删除、问题检测和修复预览/应用
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 上传 -> 创建元数据并入队 -> 客户端轮询状态 -> 查询问题/应用修复
 * @rules 仅接受csv/xlsx/xls扩展名；扩展名非法时直接415，不创建任何记录
 * @dependencies service/dataset, service/issues, service/fixes, github.com/go-chi/chi/v5
 * @refs api/routes.go
 */

package controllers

import (
	"datasteward-service/service/apperrors"
	"datasteward-service/service/audit"
	"datasteward-service/service/dataset"
	"datasteward-service/service/fixes"
	"datasteward-service/service/issues"
	"datasteward-service/service/metrics"
	"datasteward-service/service/models"
	"datasteward-service/service/storage"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// allowedExtensions 允许上传的文件扩展名
var allowedExtensions = map[string]bool{
	"csv":  true,
	"xlsx": true,
	"xls":  true,
}

// DatasetController 数据集控制器
type DatasetController struct {
	datasets      *dataset.Service
	issues        *issues.Service
	fixes         *fixes.Service
	storage       *storage.Storage
	auditor       *audit.Service
	maxUploadSize int64
}

// NewDatasetController 创建数据集控制器实例
func NewDatasetController(datasets *dataset.Service, issueSvc *issues.Service, fixSvc *fixes.Service,
	store *storage.Storage, auditor *audit.Service, maxUploadSize int64) *DatasetController {
	return &DatasetController{
		datasets:      datasets,
		issues:        issueSvc,
		fixes:         fixSvc,
		storage:       store,
		auditor:       auditor,
		maxUploadSize: maxUploadSize,
	}
}

// DatasetDTO 对外暴露的数据集视图，不包含服务器端路径
type DatasetDTO struct {
	ID        string                 `json:"id"`
	Filename  string                 `json:"filename"`
	Size      int64                  `json:"size"`
	CreatedAt string                 `json:"createdAt"`
	Status    string                 `json:"status"`
	Summary   *models.DatasetSummary `json:"summary,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

func toDatasetDTO(meta *models.DatasetMetadata) *DatasetDTO {
	return &DatasetDTO{
		ID:        meta.ID,
		Filename:  meta.Filename,
		Size:      meta.Size,
		CreatedAt: meta.CreatedAt,
		Status:    meta.Status,
		Summary:   meta.Summary,
		Error:     meta.Error,
	}
}

// Upload 上传数据集文件
// @Summary 上传数据集
// @Description 接收multipart文件，创建数据集并入队采集任务
// @Tags 数据集
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV/XLSX文件"
// @Success 201 {object} map[string]string "datasetId"
// @Failure 400 {object} ErrorResponse "未提供文件"
// @Failure 415 {object} ErrorResponse "不支持的文件类型"
// @Router /api/upload [post]
func (c *DatasetController) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		RenderAppError(w, r, apperrors.New(http.StatusBadRequest, "NO_FILE", "No file provided"))
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		RenderAppError(w, r, apperrors.UnsupportedMediaType(
			"Unsupported file type. Only CSV and XLSX files are accepted."))
		return
	}

	meta, err := c.datasets.CreateDataset(r.Context(), filename, 0, "")
	if err != nil {
		RenderError(w, r, err)
		return
	}

	if err := c.saveUploadedFile(meta, filename, file); err != nil {
		// 写盘失败时回收已创建的记录
		_ = c.datasets.DeleteDataset(meta.ID)
		RenderError(w, r, err)
		return
	}

	metrics.DatasetsUploaded.Inc()
	c.auditor.Record(audit.ActionUploadDataset, meta.ID,
		map[string]interface{}{"filename": filename}, clientIP(r))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"datasetId": meta.ID})
}

// saveUploadedFile 将上传内容流式写入数据集raw目录并回填大小和路径
func (c *DatasetController) saveUploadedFile(meta *models.DatasetMetadata, filename string, file io.Reader) error {
	dir, err := c.storage.EnsureDatasetDir(meta.ID)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, filename)
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	_, err = c.datasets.UpdateDatasetMeta(meta.ID, func(m *models.DatasetMetadata) {
		m.Size = info.Size()
		m.OriginalPath = path
	})
	return err
}

// List 列出全部数据集
// @Summary 数据集列表
// @Tags 数据集
// @Produce json
// @Success 200 {object} map[string][]DatasetDTO
// @Router /api/datasets [get]
func (c *DatasetController) List(w http.ResponseWriter, r *http.Request) {
	datasets, err := c.datasets.ListDatasets()
	if err != nil {
		RenderError(w, r, err)
		return
	}

	dtos := make([]*DatasetDTO, 0, len(datasets))
	for _, meta := range datasets {
		dtos = append(dtos, toDatasetDTO(meta))
	}
	render.JSON(w, r, map[string]interface{}{"datasets": dtos})
}

// Get 查询单个数据集
// @Summary 数据集详情
// @Tags 数据集
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} DatasetDTO
// @Failure 404 {object} ErrorResponse
// @Router /api/datasets/{id} [get]
func (c *DatasetController) Get(w http.ResponseWriter, r *http.Request) {
	meta, err := c.datasets.GetDataset(chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}
	render.JSON(w, r, toDatasetDTO(meta))
}

// Delete 删除数据集
// @Summary 删除数据集
// @Tags 数据集
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ErrorResponse
// @Router /api/datasets/{id} [delete]
func (c *DatasetController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.datasets.DeleteDataset(id); err != nil {
		RenderError(w, r, err)
		return
	}

	c.auditor.Record(audit.ActionDeleteDataset, id, nil, clientIP(r))
	render.JSON(w, r, map[string]bool{"deleted": true})
}

// GetIssues 查询数据集的质量问题
// @Summary 质量问题列表
// @Tags 数据集
// @Produce json
// @Param id path string true "数据集ID"
// @Success 200 {object} map[string][]models.Issue
// @Failure 404 {object} ErrorResponse
// @Router /api/datasets/{id}/issues [get]
func (c *DatasetController) GetIssues(w http.ResponseWriter, r *http.Request) {
	detected, err := c.issues.DetectIssues(chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"issues": detected})
}

// FixPreviewRequest 修复预览请求体
type FixPreviewRequest struct {
	RuleIDs []string `json:"ruleIds,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// PreviewFixes 生成修复预览
// @Summary 修复预览
// @Tags 数据集
// @Accept json
// @Produce json
// @Param id path string true "数据集ID"
// @Param body body FixPreviewRequest false "预览参数"
// @Success 200 {object} map[string][]models.FixPreview
// @Failure 404 {object} ErrorResponse
// @Router /api/datasets/{id}/fixes/preview [post]
func (c *DatasetController) PreviewFixes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req FixPreviewRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			RenderAppError(w, r, apperrors.Validation("Invalid request body", nil))
			return
		}
	}

	previews, err := c.fixes.PreviewFixes(id, req.RuleIDs, req.Limit)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	c.auditor.Record(audit.ActionPreviewFixes, id,
		map[string]interface{}{"previews": len(previews)}, clientIP(r))
	render.JSON(w, r, map[string]interface{}{"previews": previews})
}

// FixApplyRequest 修复应用请求体
type FixApplyRequest struct {
	RuleIDs   []string `json:"ruleIds,omitempty"`
	AutoApply bool     `json:"autoApply,omitempty"`
}

// ApplyFixes 应用修复
// @Summary 应用修复
// @Tags 数据集
// @Accept json
// @Produce json
// @Param id path string true "数据集ID"
// @Param body body FixApplyRequest false "应用参数"
// @Success 200 {object} fixes.ApplyResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "数据集未就绪"
// @Router /api/datasets/{id}/fixes/apply [post]
func (c *DatasetController) ApplyFixes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req FixApplyRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			RenderAppError(w, r, apperrors.Validation("Invalid request body", nil))
			return
		}
	}

	result, err := c.fixes.ApplyFixes(id, req.RuleIDs, req.AutoApply)
	if err != nil {
		RenderError(w, r, err)
		return
	}

	c.auditor.Record(audit.ActionApplyFixes, id, map[string]interface{}{
		"applied":  result.Applied,
		"rejected": result.Rejected,
	}, clientIP(r))
	render.JSON(w, r, result)
}
