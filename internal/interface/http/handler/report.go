package handler

import (
	"github.com/gin-gonic/gin"

	appreport "github.com/xiebiao/bookcatalog/internal/application/report"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// ReportHandler 统计报表
type ReportHandler struct {
	getReport *appreport.GetReportUseCase
}

func NewReportHandler(getReport *appreport.GetReportUseCase) *ReportHandler {
	return &ReportHandler{getReport: getReport}
}

// GetReport 统计报表
// @Summary      统计报表
// @Description  总量、按类型/年份/分类分布、作者排行、近12个月新增、评分榜
// @Tags         报表
// @Produce      json
// @Success      200 {object} response.Response{data=appreport.Report}
// @Router       /api/v1/reports [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	result, err := h.getReport.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
