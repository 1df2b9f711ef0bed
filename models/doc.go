// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain and view types for the site.

# Domain Types

  - User: account with name, bcrypt password hash and the expert/admin roles
  - Question: question text, optional answer, status, asker and expert ids
  - QuestionSummary: answered question with asker/expert names (home page)
  - QuestionDetail: one question with answer and names (question page)
  - PendingQuestion: unanswered question with asker name (expert inbox)

Asker and expert names come from left joins, so they are pointers; the
AskerName and ExpertName methods render a missing user as "unknown".

# Constants

Question status values:

	StatusUnanswered = "unanswered"
	StatusAnswered   = "answered"

A question is answered exactly when its answer text is set; the database
enforces that the two agree.

# View Types

One struct per page, each carrying the current user (nil when logged out):

  - HomePage, AuthPage, QuestionPage, AnswerPage, AskPage,
    UnansweredPage, UsersPage
*/
package models
