// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Client-Facing Messages

const (
	MessageVerificationSent   = "Email verification link sent to user's email"
	MessageSignupMailFailed   = "There was an issue while sending email on user's email address. Please, try to create the account later"
	MessageVerificationFailed = "Either email verification link is invalid or has expired"

	MessageMissingCredentials = "Please provide email and password!"
	MessageWrongCredentials   = "Incorrect email or password"

	MessageTokenExpired     = "Your token has expired! Please log in again."
	MessageTokenInvalid     = "Invalid token. Please log in again!"
	MessageUserGone         = "The user belonging to this token no longer exist."
	MessagePasswordChanged  = "User recently changed password! Please login again."
	MessageWrongCurrentPass = "Your current password is incorrect"

	MessageNoActiveUser    = "There is no active user with provided email address"
	MessageResetSent       = "Password reset link sent to your email!"
	MessageResetMailFailed = "There was an error while sending the email. Please, try again later!"
	MessageResetInvalid    = "Token is invalid or has expired"

	MessagePasswordRoute = "This route is not for password updates. Please use /update-my-password."
	MessageInvalidAvatar = "Invalid image format."

	MessagePasswordMismatch = "password and confirm password are not the same!"
)

// # Link Paths

const (
	verifyEmailPath   = "/verify-email/?emailVerificationToken="
	resetPasswordPath = "/reset-password/?resetToken="
)
