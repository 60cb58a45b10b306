/*
 * @module service/rag/rag
 * @description 文档检索服务：加载markdown文档、按标题分块并用关键词打分检索
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 首次查询时加载并缓存分块 -> 关键词打分 -> 取得分最高的前3块
 * @rules 朴素关键词匹配：词长需大于3，正文命中+1分，标题命中+2分，0分不返回
 * @dependencies os, strings
 * @refs service/assist
 */

package rag

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	chunkMaxLen = 1000
	topK        = 3
)

// Chunk 文档分块
type Chunk struct {
	DocID   string `json:"docId"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Result 检索结果
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Index 文档索引
type Index struct {
	docsDir string
	once    sync.Once
	chunks  []Chunk
}

// NewIndex 创建文档索引，目录内容在首次查询时加载
func NewIndex(docsDir string) *Index {
	return &Index{docsDir: docsDir}
}

// load 加载目录下的markdown文件并按"## "标题分块
func (i *Index) load() {
	entries, err := os.ReadDir(i.docsDir)
	if err != nil {
		slog.Warn("加载RAG文档目录失败", "dir", i.docsDir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(i.docsDir, entry.Name()))
		if err != nil {
			slog.Warn("读取RAG文档失败", "file", entry.Name(), "error", err)
			continue
		}

		sections := strings.Split(string(data), "\n## ")
		for idx, section := range sections {
			if strings.TrimSpace(section) == "" {
				continue
			}
			lines := strings.SplitN(section, "\n", 2)
			title := strings.TrimPrefix(strings.TrimSpace(lines[0]), "# ")
			body := section
			if idx > 0 {
				body = "## " + section
			}
			if len(body) > chunkMaxLen {
				body = body[:chunkMaxLen]
			}
			i.chunks = append(i.chunks, Chunk{
				DocID:   entry.Name() + "-" + string(rune('0'+idx)),
				Path:    entry.Name(),
				Title:   title,
				Content: body,
			})
		}
	}
	slog.Info("RAG文档索引加载完成", "dir", i.docsDir, "chunks", len(i.chunks))
}

// Search 按关键词打分检索，返回得分大于0的前topK块
func (i *Index) Search(query string) []Chunk {
	i.once.Do(i.load)
	if len(i.chunks) == 0 {
		return nil
	}

	terms := []string{}
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) > 3 {
			terms = append(terms, t)
		}
	}

	type scored struct {
		chunk Chunk
		score int
	}
	results := []scored{}
	for _, chunk := range i.chunks {
		score := 0
		contentLower := strings.ToLower(chunk.Content)
		titleLower := strings.ToLower(chunk.Title)
		for _, term := range terms {
			if strings.Contains(contentLower, term) {
				score++
			}
			if strings.Contains(titleLower, term) {
				score += 2
			}
		}
		if score > 0 {
			results = append(results, scored{chunk: chunk, score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	chunks := make([]Chunk, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.chunk)
	}
	return chunks
}

// Query 检索并组装回答，无命中时返回兜底文案
func (i *Index) Query(query string) *Result {
	chunks := i.Search(query)
	if len(chunks) == 0 {
		return &Result{
			Answer:  "No he encontrado información relevante en la documentación.",
			Sources: []string{},
		}
	}

	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		sources = append(sources, c.Path)
	}
	return &Result{
		Answer:  chunks[0].Content,
		Sources: sources,
	}
}
