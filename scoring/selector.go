package scoring

import "github.com/Dosada05/aswat-contest/models"

// SelectView picks what the public results board shows. The flag alone
// decides; an empty selection sets Awaiting rather than failing.
func SelectView(showCurrentResults bool, participants []*models.Participant, winners [models.WinnerSlots]string) models.ResultsView {
	if showCurrentResults {
		board := Rank(participants)
		return models.ResultsView{
			Mode:        models.ResultsModeLive,
			Leaderboard: board,
			Awaiting:    len(board) == 0,
		}
	}
	archive := Archive(winners)
	return models.ResultsView{
		Mode:     models.ResultsModeArchive,
		Archive:  archive,
		Awaiting: len(archive) == 0,
	}
}
