package bot

const (
	replyProcessing      = "Processing..."
	replyCompleted       = "Completed!"
	replyCompletedResult = "Completed!\nHere's the result:"
	replyEnjoy           = "Enjoy!"
	replyNoDetections    = "No detections found with your img."
	replyUploadFailed    = "Oh no!\nUploading your photo failed, so it could not be analyzed. Please try again."

	replyProcessingFailed = "Oh no!\nSomething went wrong while processing your image. Please try sending it again."

	replyNoCaption = "Oh no!\nThe photo that you've sent does not contain any action in the caption.\n" +
		"Please send it again with the action you want to apply in the \"caption\" of the picture.\n\n" +
		"For the list of available actions you can type \"/actions\""

	replyUnknownAction = "Oh no!\nThe action that you've specified does not exist yet.\n" +
		"Please send it again with the action you want to apply in the \"caption\" of the picture " +
		"from the list of actions.\n\nFor the list of available actions you can type \"/actions\""
)
