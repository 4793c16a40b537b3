package registration

import (
	"vexstorm/database/repository"
	"vexstorm/models"
)

// duplicatePredicates lists every uniqueness condition for one submission.
// Email is always checked; the others only when they carry a real value.
func (s *Service) duplicatePredicates(emailKey, teamKey, transactionID, deviceID string) repository.Predicates {
	return repository.Predicates{
		repository.Always(repository.FieldLeaderEmail, emailKey),
		repository.When(teamKey != models.SoloTeamName, repository.FieldTeamName, teamKey),
		repository.When(transactionID != s.opts.TestSkipTransactionID, repository.FieldTransactionID, transactionID),
		repository.Always(repository.FieldDeviceID, deviceID),
	}
}

// firstConflict checks the returned rows rule by rule, in priority order, and
// returns the message of the first rule any row violates.
func (s *Service) firstConflict(rows []models.RegistrationRecord, emailKey, teamKey, transactionID, deviceID string) string {
	if len(rows) == 0 {
		return ""
	}
	for _, row := range rows {
		if rowEmailKey(row) == emailKey {
			return MsgEmailTaken
		}
	}
	if teamKey != "" {
		for _, row := range rows {
			if repository.NormalizeKey(row.TeamName) == teamKey {
				return MsgTeamTaken
			}
		}
	}
	if deviceID != "" {
		for _, row := range rows {
			if row.DeviceID == deviceID {
				return MsgDeviceTaken
			}
		}
	}
	if transactionID != "" && transactionID != s.opts.TestSkipTransactionID {
		for _, row := range rows {
			if row.TransactionID == transactionID {
				return MsgTransactionTaken
			}
		}
	}
	return ""
}

func rowEmailKey(row models.RegistrationRecord) string {
	if row.LeaderEmailKey != "" {
		return row.LeaderEmailKey
	}
	return repository.NormalizeKey(row.Leader.Email)
}
