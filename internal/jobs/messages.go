package jobs

import "github.com/amgohq/amgo/pkg/models"

// progressMessage picks the phase-appropriate status text for a processing
// job: one message set per kind, bucketed by progress at 30 and 60.
func progressMessage(progress int, kind models.JobKind) string {
	switch kind {
	case models.JobKindExport:
		if progress < 30 {
			return "Preparing data segments..."
		}
		if progress < 60 {
			return "Exporting records..."
		}
		return "Finalizing export file..."
	case models.JobKindAnalysis:
		if progress < 30 {
			return "Loading campaign metrics..."
		}
		if progress < 60 {
			return "Running attribution models..."
		}
		return "Generating insights..."
	case models.JobKindSync:
		if progress < 30 {
			return "Fetching contact lists..."
		}
		if progress < 60 {
			return "Resolving deduplication..."
		}
		return "Writing synchronized records..."
	default: // report
		if progress < 30 {
			return "Aggregating performance data..."
		}
		if progress < 60 {
			return "Building visualizations..."
		}
		return "Composing final report..."
	}
}

var completionMessages = map[models.JobKind]string{
	models.JobKindExport:   "Export complete. File ready for download.",
	models.JobKindAnalysis: "Analysis complete. Insights available.",
	models.JobKindSync:     "Sync complete. Contacts updated.",
	models.JobKindReport:   "Report generated successfully.",
}

func completionMessage(kind models.JobKind) string {
	return completionMessages[kind]
}
