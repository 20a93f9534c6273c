package main

// gameIDSessionKey stores the ID of the session's live game.
const gameIDSessionKey = "gameID"
