package batch

import (
	"time"

	"github.com/ginjaninja78/milstrip-validator/pkg/utils"
	"github.com/samber/lo"
)

// Summarize folds the results of a run into a processing summary.
func Summarize(results []Result, start, end time.Time) utils.ProcessingSummary {
	succeeded, failed := lo.FilterReject(results, func(r Result, _ int) bool {
		return r.Success
	})

	return utils.ProcessingSummary{
		StartTime:       start,
		EndTime:         end,
		TotalFiles:      len(results),
		SuccessfulFiles: len(succeeded),
		FailedFiles:     len(failed),
		TotalRecords:    lo.SumBy(results, func(r Result) int { return r.Stats.Records }),
		ValidRecords:    lo.SumBy(results, func(r Result) int { return r.Stats.ValidRecords }),
		InvalidRecords:  lo.SumBy(results, func(r Result) int { return r.Stats.InvalidRecords }),
		Violations:      lo.SumBy(results, func(r Result) int { return r.Stats.Violations }),
		ProcessedFiles: lo.Map(succeeded, func(r Result, _ int) utils.ProcessedFileInfo {
			return utils.ProcessedFileInfo{
				InputFile:      r.FilePath,
				ReportFile:     r.ReportFile,
				Records:        r.Stats.Records,
				InvalidRecords: r.Stats.InvalidRecords,
				ProcessTime:    r.Stats.ProcessingTime,
			}
		}),
		FailedFilesList: lo.Map(failed, func(r Result, _ int) utils.FailedFileInfo {
			return utils.FailedFileInfo{
				InputFile:    r.FilePath,
				ErrorMessage: errorMessage(r.Error),
			}
		}),
	}
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
